package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
	"github.com/api2can/api2can/internal/template"
	"github.com/api2can/api2can/internal/usecase"
)

func newLexicalizeUC(store usecase.TemplateStore) *usecase.LexicalizeUseCase {
	logger := testLogger()
	lex := lexical.NewService()
	return usecase.NewLexicalizeUseCase(
		classify.New(lex, logger),
		template.New(lex, nil, nil, logger),
		phrase.NewNormalizer(lex, nil, nil),
		store,
		logger,
	)
}

func petOperation() domain.Operation {
	return domain.Operation{
		Verb: "get",
		URL:  "/pets/{petId}",
		Params: []domain.Param{
			{Name: "petId", Location: domain.InPath, Type: "integer"},
		},
	}
}

func TestLexicalizeUseCase_Delexicalize(t *testing.T) {
	assert := assert.New(t)
	uc := newLexicalizeUC(template.NewBank())

	op := petOperation()
	signature, resources, err := uc.Delexicalize(context.Background(), &op)

	require.NoError(t, err)
	assert.Equal("get Collection_1 Singleton_1", signature)
	require.Len(t, resources, 1)
	assert.Equal([]string{"Collection_1", "Singleton_1"}, resources[0].IDs)
}

func TestLexicalizeUseCase_Delexicalize_NoResources(t *testing.T) {
	uc := newLexicalizeUC(template.NewBank())

	op := domain.Operation{Verb: "get", URL: "/pets/{broken"}
	_, _, err := uc.Delexicalize(context.Background(), &op)
	assert.ErrorIs(t, err, usecase.ErrNoResources)
}

func TestLexicalizeUseCase_Execute(t *testing.T) {
	assert := assert.New(t)

	bank := template.NewBank()
	bank.Add("get Collection_1 Singleton_1",
		"get a Collection_1 with Singleton_1 being << Singleton_1 >>")
	uc := newLexicalizeUC(bank)

	op := petOperation()
	got, err := uc.Execute(context.Background(), &op)

	require.NoError(t, err)
	// the agreement pass lowercases the whole utterance, placeholders included
	assert.Equal("get a pet with pet id being << petid >>", got)
}

func TestLexicalizeUseCase_Execute_EmptyBank(t *testing.T) {
	uc := newLexicalizeUC(template.NewBank())

	op := petOperation()
	_, err := uc.Execute(context.Background(), &op)
	assert.ErrorIs(t, err, usecase.ErrNoTemplates)
}

func TestLexicalizeUseCase_ExecuteWith(t *testing.T) {
	assert := assert.New(t)
	uc := newLexicalizeUC(template.NewBank())

	op := petOperation()
	got, err := uc.ExecuteWith(context.Background(), &op,
		[]string{"get a Collection_1 with Singleton_1 being << Singleton_1 >>"})

	require.NoError(t, err)
	assert.Equal("get a pet with pet id being << petId >>", got)

	_, err = uc.ExecuteWith(context.Background(), &op, nil)
	assert.ErrorIs(err, usecase.ErrNoTemplates)
}
