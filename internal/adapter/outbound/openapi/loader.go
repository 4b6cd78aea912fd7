// Package openapi loads OpenAPI and Swagger documents and flattens their
// operations into the domain model.
package openapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oasdiff/yaml"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

// Loader implements usecase.SpecSource for OpenAPI documents. Sources may be
// http(s) URLs or local file paths, in JSON or YAML.
type Loader struct {
	httpClient *http.Client
	lex        *lexical.Service
	logger     *slog.Logger
}

// NewLoader creates an OpenAPI Loader.
func NewLoader(client *http.Client, lex *lexical.Service, logger *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		httpClient: client,
		lex:        lex,
		logger:     logger.With("component", "openapi_loader"),
	}
}

// Load fetches and parses the document and converts every path operation.
func (l *Loader) Load(ctx context.Context, src string) (*domain.API, error) {
	log := l.logger.With(slog.String("source", src))
	log.Info("Loading OpenAPI document")

	rawData, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}

	doc, err := l.parse(ctx, rawData)
	if err != nil {
		log.Error("Failed to parse OpenAPI document", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse OpenAPI document from %s: %w", src, err)
	}
	if validateErr := doc.Validate(ctx, openapi3.DisableExamplesValidation(), openapi3.DisableSchemaDefaultsValidation()); validateErr != nil {
		log.Warn("OpenAPI document validation failed", slog.Any("validation_error", validateErr))
	}

	api := l.convert(doc, src)
	log.Info("Loaded OpenAPI document", slog.Int("operation_count", len(api.Operations)))
	return api, nil
}

// parse handles both OpenAPI 3 documents and Swagger 2.0 documents, which
// are converted to OpenAPI 3 first.
func (l *Loader) parse(ctx context.Context, rawData []byte) (*openapi3.T, error) {
	var probe struct {
		Swagger string `json:"swagger"`
	}
	if err := yaml.Unmarshal(rawData, &probe); err == nil && strings.HasPrefix(probe.Swagger, "2.") {
		var doc2 openapi2.T
		if err := yaml.Unmarshal(rawData, &doc2); err != nil {
			return nil, err
		}
		return openapi2conv.ToV3(&doc2)
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	return loader.LoadFromData(rawData)
}

// read fetches the raw document bytes from a URL or the filesystem.
func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	u, parseErr := url.ParseRequestURI(src)
	if parseErr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request for %s: %w", src, err)
		}
		resp, err := l.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch document from URL %s: %w", src, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch document from URL %s: status %s", src, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read document from file %s: %w", src, err)
	}
	return data, nil
}

var supportedVerbs = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true, "patch": true,
}

func (l *Loader) convert(doc *openapi3.T, src string) *domain.API {
	api := &domain.API{URL: src}
	if doc.Info != nil {
		api.Title = doc.Info.Title
	}

	basePath, serverURL := serverBase(doc.Servers)
	if serverURL != "" {
		api.URL = serverURL
		api.Protocols = serverProtocols(doc.Servers)
	}

	authTokens := authKeys(doc)

	if doc.Paths == nil {
		return api
	}
	paths := doc.Paths.Map()
	urls := make([]string, 0, len(paths))
	for u := range paths {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, pathURL := range urls {
		item := paths[pathURL]
		ops := item.Operations()
		verbs := make([]string, 0, len(ops))
		for v := range ops {
			verbs = append(verbs, v)
		}
		sort.Strings(verbs)

		for _, v := range verbs {
			verb := strings.ToLower(v)
			if !supportedVerbs[verb] {
				continue
			}
			spec := ops[v]

			params := l.convertParameters(item.Parameters, spec.Parameters, authTokens)
			if verb != "get" {
				params = append(params, l.bodyParameters(spec.RequestBody, authTokens)...)
			}

			op := domain.Operation{
				Verb:        verb,
				URL:         pathURL,
				BasePath:    basePath,
				Summary:     spec.Summary,
				Description: spec.Description,
				OperationID: spec.OperationID,
				Params:      params,
			}
			if id := l.lex.Normalize(spec.OperationID); id != "" {
				op.Intent = strings.ReplaceAll(id, " ", "_")
			} else {
				op.Intent = op.DefaultIntent()
			}
			api.Operations = append(api.Operations, op)
		}
	}
	return api
}

// serverBase extracts the path prefix of the first server entry.
func serverBase(servers openapi3.Servers) (basePath, serverURL string) {
	if len(servers) == 0 || servers[0].URL == "" {
		return "", ""
	}
	serverURL = servers[0].URL
	if u, err := url.Parse(serverURL); err == nil {
		basePath = u.Path
	}
	return basePath, serverURL
}

func serverProtocols(servers openapi3.Servers) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, s := range servers {
		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme == "" || seen[u.Scheme] {
			continue
		}
		seen[u.Scheme] = true
		ret = append(ret, u.Scheme)
	}
	return ret
}

// globalAuthKeys are parameter names treated as credentials even when the
// document declares no security scheme for them.
var globalAuthKeys = map[string]bool{
	"token": true, "api_key": true, "oAuth": true, "OAuth": true,
	"Authentication": true, "authentication": true,
}

// authKeys collects the parameter names used by the document's security
// schemes.
func authKeys(doc *openapi3.T) map[string]bool {
	ret := make(map[string]bool)
	if doc.Components == nil {
		return ret
	}
	for _, ref := range doc.Components.SecuritySchemes {
		if ref == nil || ref.Value == nil || ref.Value.Name == "" {
			continue
		}
		ret[ref.Value.Name] = true
	}
	return ret
}

func isAuthParam(name string, authTokens map[string]bool) bool {
	return authTokens[name] || globalAuthKeys[name]
}

// convertParameters flattens path-level and operation-level parameters.
// Operation-level definitions win on name collisions.
func (l *Loader) convertParameters(pathParams, opParams openapi3.Parameters, authTokens map[string]bool) []domain.Param {
	byName := make(map[string]bool)
	var ret []domain.Param

	add := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil || byName[ref.Value.Name] {
				continue
			}
			byName[ref.Value.Name] = true
			ret = append(ret, l.convertParameter(ref.Value, authTokens))
		}
	}
	add(opParams)
	add(pathParams)
	return ret
}

func (l *Loader) convertParameter(p *openapi3.Parameter, authTokens map[string]bool) domain.Param {
	param := domain.Param{
		Name:     p.Name,
		Location: domain.ParamLocation(p.In),
		Required: p.Required || p.In == "path",
		Desc:     flattenText(p.Description),
		IsAuth:   isAuthParam(p.Name, authTokens),
	}
	if p.Schema != nil && p.Schema.Value != nil {
		s := p.Schema.Value
		param.Type = schemaType(s)
		param.Pattern = s.Pattern
		param.Example = exampleString(firstNonNil(p.Example, s.Example, s.Default))
		if len(s.Enum) > 0 {
			param.Type = "enum " + param.Type
			param.Example = exampleString(s.Enum[0])
		}
	}
	return param
}
