package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGenerateUC(source usecase.SpecSource) *usecase.GenerateCanonicalsUseCase {
	logger := testLogger()
	lex := lexical.NewService()
	norm := phrase.NewNormalizer(lex, nil, nil)
	return usecase.NewGenerateCanonicalsUseCase(
		source,
		classify.New(lex, logger),
		phrase.NewGenerator(lex, nil, logger),
		phrase.NewExtractor(lex, norm, logger),
		norm,
		lex,
		logger,
	)
}

func TestGenerateCanonicalsUseCase_Translate_RuleOnly(t *testing.T) {
	assert := assert.New(t)
	uc := newGenerateUC(nil)

	op := domain.Operation{Verb: "get", URL: "/pets"}
	got := uc.Translate(&op, usecase.GenerateOptions{})

	require.Len(t, got, 1)
	assert.Equal("get the list of pets", got[0].Utterance)
	assert.Equal(op.DefaultIntent(), got[0].Intent)
	assert.Equal(op.Intent, got[0].Intent)
}

func TestGenerateCanonicalsUseCase_Translate_SummaryFirstRuleAppends(t *testing.T) {
	assert := assert.New(t)
	uc := newGenerateUC(nil)

	op := domain.Operation{
		Verb:    "get",
		URL:     "/pets",
		Summary: "Returns every pet in the store inventory.",
	}
	got := uc.Translate(&op, usecase.GenerateOptions{})

	require.Len(t, got, 2)
	assert.Equal("get every pet in the store inventory", got[0].Utterance)
	assert.Equal("get the list of pets", got[1].Utterance)
}

func TestGenerateCanonicalsUseCase_Translate_RuleOverrides(t *testing.T) {
	uc := newGenerateUC(nil)

	op := domain.Operation{
		Verb:    "get",
		URL:     "/pets",
		Summary: "Returns every pet in the store inventory.",
	}
	got := uc.Translate(&op, usecase.GenerateOptions{RuleOverrides: true})

	require.Len(t, got, 1)
	assert.Equal(t, "get the list of pets", got[0].Utterance)
}

func TestGenerateCanonicalsUseCase_Translate_TranslatorSelection(t *testing.T) {
	assert := assert.New(t)
	uc := newGenerateUC(nil)

	op := domain.Operation{
		Verb:    "get",
		URL:     "/pets",
		Summary: "Returns every pet in the store inventory.",
	}

	got := uc.Translate(&op, usecase.GenerateOptions{Translators: []usecase.Translator{usecase.TranslatorRule}})
	require.Len(t, got, 1)
	assert.Equal("get the list of pets", got[0].Utterance)

	got = uc.Translate(&op, usecase.GenerateOptions{Translators: []usecase.Translator{usecase.TranslatorSummary}})
	require.Len(t, got, 1)
	assert.Equal("get every pet in the store inventory", got[0].Utterance)
}

func TestGenerateCanonicalsUseCase_Translate_NonPathParamViews(t *testing.T) {
	assert := assert.New(t)
	uc := newGenerateUC(nil)

	op := domain.Operation{
		Verb: "get",
		URL:  "/pets",
		Params: []domain.Param{
			{Name: "status", Location: domain.InQuery, Type: "string"},
		},
	}

	got := uc.Translate(&op, usecase.GenerateOptions{})
	require.Len(t, got, 2)
	assert.Equal("get the list of pets", got[0].Utterance)
	assert.Equal("get the list of pets with status being << status >>", got[1].Utterance)

	got = uc.Translate(&op, usecase.GenerateOptions{IgnoreNonPathParams: true})
	require.Len(t, got, 1)
}

func TestGenerateCanonicalsUseCase_Translate_NoMatch(t *testing.T) {
	uc := newGenerateUC(nil)

	op := domain.Operation{Verb: "options", URL: "/pets"}
	assert.Empty(t, uc.Translate(&op, usecase.GenerateOptions{}))
}

func TestGenerateCanonicalsUseCase_ExecuteSource(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	source := new(MockSpecSource)
	api := &domain.API{
		Title: "Petstore",
		Operations: []domain.Operation{
			{Verb: "get", URL: "/pets"},
			{Verb: "post", URL: "/pets"},
		},
	}
	source.On("Load", ctx, "petstore.yaml").Return(api, nil).Once()

	uc := newGenerateUC(source)
	got, err := uc.ExecuteSource(ctx, "petstore.yaml", usecase.GenerateOptions{})

	require.NoError(t, err)
	require.Len(t, got.Operations, 2)
	assert.Equal("get the list of pets", got.Operations[0].Canonicals[0].Utterance)
	assert.Equal("create a new pet", got.Operations[1].Canonicals[0].Utterance)
	source.AssertExpectations(t)
}

func TestGenerateCanonicalsUseCase_ExecuteSource_LoadFailure(t *testing.T) {
	ctx := context.Background()

	source := new(MockSpecSource)
	source.On("Load", ctx, "broken.yaml").Return(nil, errors.New("boom")).Once()

	uc := newGenerateUC(source)
	_, err := uc.ExecuteSource(ctx, "broken.yaml", usecase.GenerateOptions{})

	assert.ErrorContains(t, err, "broken.yaml")
	source.AssertExpectations(t)
}
