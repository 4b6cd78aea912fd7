package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/api2can/api2can/internal/adapter/inbound/httpapi"
	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
	"github.com/api2can/api2can/internal/template"
	"github.com/api2can/api2can/internal/usecase"
)

// MockSpecSource is a mock implementation of the SpecSource interface.
type MockSpecSource struct {
	mock.Mock
}

func (m *MockSpecSource) Load(ctx context.Context, source string) (*domain.API, error) {
	args := m.Called(ctx, source)
	api := args.Get(0)
	if api == nil {
		return nil, args.Error(1)
	}
	return api.(*domain.API), args.Error(1)
}

type stubSampler struct {
	values []string
}

func (s stubSampler) Sample(p domain.Param, n int) []string { return s.values }

func newTestServer(t *testing.T, source usecase.SpecSource, bank usecase.TemplateStore) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lex := lexical.NewService()
	norm := phrase.NewNormalizer(lex, nil, nil)
	classifier := classify.New(lex, logger)

	generateUC := usecase.NewGenerateCanonicalsUseCase(
		source,
		classifier,
		phrase.NewGenerator(lex, nil, logger),
		phrase.NewExtractor(lex, norm, logger),
		norm,
		lex,
		logger,
	)
	if bank == nil {
		bank = template.NewBank()
	}
	lexicalizeUC := usecase.NewLexicalizeUseCase(classifier, template.New(lex, nil, nil, logger), norm, bank, logger)

	handlers := httpapi.NewHandlers(source, generateUC, lexicalizeUC, stubSampler{values: []string{"42"}}, logger)
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleExtract(t *testing.T) {
	assert := assert.New(t)

	source := new(MockSpecSource)
	api := &domain.API{
		Title:      "Petstore",
		Operations: []domain.Operation{{Verb: "get", URL: "/pets"}},
	}
	source.On("Load", mock.Anything, "petstore.yaml").Return(api, nil).Once()

	srv := newTestServer(t, source, nil)
	resp := postJSON(t, srv.URL+"/v1/operations/extract", `{"source": "petstore.yaml"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.API
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal("Petstore", got.Title)
	require.Len(t, got.Operations, 1)
	assert.Empty(got.Operations[0].Canonicals)
	source.AssertExpectations(t)
}

func TestHandleExtract_BadRequests(t *testing.T) {
	srv := newTestServer(t, new(MockSpecSource), nil)

	resp := postJSON(t, srv.URL+"/v1/operations/extract", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/v1/operations/extract", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleCanonicals(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, new(MockSpecSource), nil)

	body := `[{"operations": [{"verb": "get", "url": "/pets"}]}]`
	resp := postJSON(t, srv.URL+"/v1/operations/canonicals?translators=RULE", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []domain.API
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Operations, 1)
	require.NotEmpty(t, got[0].Operations[0].Canonicals)
	assert.Equal("get the list of pets", got[0].Operations[0].Canonicals[0].Utterance)
}

func TestHandleDelexicalize(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, new(MockSpecSource), nil)

	body := `{"verb": "get", "url": "/pets/{petId}",
		"params": [{"name": "petId", "location": "path", "type": "integer"}]}`
	resp := postJSON(t, srv.URL+"/v1/operations/delexicalize", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got httpapi.DelexicalizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal("get Collection_1 Singleton_1", got.Signature)
	require.Len(t, got.Resources, 1)
}

func TestHandleDelexicalize_NoResources(t *testing.T) {
	srv := newTestServer(t, new(MockSpecSource), nil)

	resp := postJSON(t, srv.URL+"/v1/operations/delexicalize", `{"verb": "get", "url": "/pets/{broken"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleLexicalize(t *testing.T) {
	assert := assert.New(t)

	bank := template.NewBank()
	bank.Add("get Collection_1 Singleton_1",
		"get a Collection_1 with Singleton_1 being << Singleton_1 >>")
	srv := newTestServer(t, new(MockSpecSource), bank)

	body := `{"operation": {"verb": "get", "url": "/pets/{petId}",
		"params": [{"name": "petId", "location": "path", "type": "integer"}]}}`
	resp := postJSON(t, srv.URL+"/v1/operations/lexicalize", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got httpapi.LexicalizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal("get a pet with pet id being << petid >>", got.Utterance)
}

func TestHandleLexicalize_EmptyBank(t *testing.T) {
	srv := newTestServer(t, new(MockSpecSource), nil)

	body := `{"operation": {"verb": "get", "url": "/pets/{petId}",
		"params": [{"name": "petId", "location": "path", "type": "integer"}]}}`
	resp := postJSON(t, srv.URL+"/v1/operations/lexicalize", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHandleEntityValues(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, new(MockSpecSource), nil)

	resp := postJSON(t, srv.URL+"/v1/entities/values?n=1", `{"name": "petId", "type": "integer"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal([]string{"42"}, got)

	resp = postJSON(t, srv.URL+"/v1/entities/values?n=zero", `{"name": "petId"}`)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, new(MockSpecSource), nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
