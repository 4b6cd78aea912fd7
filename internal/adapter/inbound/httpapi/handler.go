// Package httpapi exposes the generation pipeline over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/usecase"
)

// Handlers holds the use cases served over HTTP.
type Handlers struct {
	source       usecase.SpecSource
	generateUC   *usecase.GenerateCanonicalsUseCase
	lexicalizeUC *usecase.LexicalizeUseCase
	sampler      usecase.ValueSampler
	logger       *slog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(
	source usecase.SpecSource,
	generateUC *usecase.GenerateCanonicalsUseCase,
	lexicalizeUC *usecase.LexicalizeUseCase,
	sampler usecase.ValueSampler,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		source:       source,
		generateUC:   generateUC,
		lexicalizeUC: lexicalizeUC,
		sampler:      sampler,
		logger:       logger.With("component", "httpapi_handler"),
	}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/operations/extract", h.handleExtract)
	mux.HandleFunc("POST /v1/operations/canonicals", h.handleCanonicals)
	mux.HandleFunc("POST /v1/operations/delexicalize", h.handleDelexicalize)
	mux.HandleFunc("POST /v1/operations/lexicalize", h.handleLexicalize)
	mux.HandleFunc("POST /v1/entities/values", h.handleEntityValues)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// ExtractRequest names the API description document to load.
type ExtractRequest struct {
	Source string `json:"source"`
}

// handleExtract implements POST /v1/operations/extract: it loads a document
// and returns its operations without canonicals.
func (h *Handlers) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if req.Source == "" {
		http.Error(w, "Missing 'source' field in request body", http.StatusBadRequest)
		return
	}

	api, err := h.source.Load(r.Context(), req.Source)
	if err != nil {
		h.logger.Error("Failed to extract operations", slog.String("source", req.Source), slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to extract operations: %v", err), http.StatusBadGateway)
		return
	}
	h.writeJSON(w, api)
}

// handleCanonicals implements POST /v1/operations/canonicals. The body is a
// list of APIs with operations; translators are selected with repeated
// "translators" query parameters (RULE, SUMMARY).
func (h *Handlers) handleCanonicals(w http.ResponseWriter, r *http.Request) {
	var apis []domain.API
	if err := json.NewDecoder(r.Body).Decode(&apis); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var translators []usecase.Translator
	for _, t := range r.URL.Query()["translators"] {
		translators = append(translators, usecase.Translator(t))
	}
	opts := usecase.GenerateOptions{Translators: translators}

	for i := range apis {
		h.generateUC.Execute(r.Context(), apis[i].Operations, opts)
	}
	h.writeJSON(w, apis)
}

// DelexicalizeResponse carries an operation's shape signature and its
// classified resources.
type DelexicalizeResponse struct {
	Signature string            `json:"delexicalized_operation"`
	Resources []domain.Resource `json:"resources"`
}

// handleDelexicalize implements POST /v1/operations/delexicalize.
func (h *Handlers) handleDelexicalize(w http.ResponseWriter, r *http.Request) {
	var op domain.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature, resources, err := h.lexicalizeUC.Delexicalize(r.Context(), &op)
	if err != nil {
		if errors.Is(err, usecase.ErrNoResources) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, DelexicalizeResponse{Signature: signature, Resources: resources})
}

// LexicalizeRequest carries the operation to lexicalize and, optionally, the
// templates to instantiate. Without templates the stored bank is used.
type LexicalizeRequest struct {
	Operation domain.Operation `json:"operation"`
	Templates []string         `json:"templates,omitempty"`
}

// LexicalizeResponse is the produced utterance.
type LexicalizeResponse struct {
	Utterance string `json:"utterance"`
}

// handleLexicalize implements POST /v1/operations/lexicalize.
func (h *Handlers) handleLexicalize(w http.ResponseWriter, r *http.Request) {
	var req LexicalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var utterance string
	var err error
	if len(req.Templates) > 0 {
		utterance, err = h.lexicalizeUC.ExecuteWith(r.Context(), &req.Operation, req.Templates)
	} else {
		utterance, err = h.lexicalizeUC.Execute(r.Context(), &req.Operation)
	}
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoResources), errors.Is(err, usecase.ErrNoCanonical):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, usecase.ErrNoTemplates):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("Failed to lexicalize operation", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	h.writeJSON(w, LexicalizeResponse{Utterance: utterance})
}

// handleEntityValues implements POST /v1/entities/values. The body is a
// parameter; "n" query parameter sets the sample size, default 10.
func (h *Handlers) handleEntityValues(w http.ResponseWriter, r *http.Request) {
	var p domain.Param
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Query parameter 'n' must be a positive integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	h.writeJSON(w, h.sampler.Sample(p, n))
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}
