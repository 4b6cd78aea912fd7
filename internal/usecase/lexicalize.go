package usecase

import (
	"context"
	"log/slog"

	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/phrase"
	"github.com/api2can/api2can/internal/template"
)

// LexicalizeUseCase produces an utterance for an operation by instantiating
// a stored template, and exposes the inverse delexicalization step.
type LexicalizeUseCase struct {
	classifier  *classify.Classifier
	templatizer *template.Templatizer
	norm        *phrase.Normalizer
	store       TemplateStore
	logger      *slog.Logger
}

func NewLexicalizeUseCase(
	classifier *classify.Classifier,
	templatizer *template.Templatizer,
	norm *phrase.Normalizer,
	store TemplateStore,
	logger *slog.Logger,
) *LexicalizeUseCase {
	return &LexicalizeUseCase{
		classifier:  classifier,
		templatizer: templatizer,
		norm:        norm,
		store:       store,
		logger:      logger.With("usecase", "Lexicalize"),
	}
}

// Delexicalize returns the operation's resource sequence signature and its
// classified resources with placeholder ids assigned.
func (uc *LexicalizeUseCase) Delexicalize(ctx context.Context, op *domain.Operation) (string, []domain.Resource, error) {
	resources := uc.classifier.Classify(op)
	if len(resources) == 0 {
		return "", nil, ErrNoResources
	}
	signature, resources := uc.templatizer.ResourceSequence(*op, resources)
	return signature, resources, nil
}

// Execute instantiates the best stored template for the operation. With an
// empty bank it fails with ErrNoTemplates.
func (uc *LexicalizeUseCase) Execute(ctx context.Context, op *domain.Operation) (string, error) {
	resources := uc.classifier.Classify(op)
	if len(resources) == 0 {
		return "", ErrNoResources
	}

	signature, sequenced := uc.templatizer.ResourceSequence(*op, resources)
	templates := uc.store.Templates(signature)
	if len(templates) == 0 {
		return "", ErrNoTemplates
	}

	utterance := uc.templatizer.FromTemplate(*op, templates, resources, true)
	if utterance == "" {
		return "", ErrNoCanonical
	}
	utterance = uc.norm.PluralToSingularEdit(utterance, sequenced)

	uc.logger.Debug("Lexicalized operation.",
		slog.String("verb", op.Verb),
		slog.String("url", op.URL),
		slog.String("signature", signature))
	return utterance, nil
}

// ExecuteWith instantiates the caller-supplied templates instead of the
// stored bank.
func (uc *LexicalizeUseCase) ExecuteWith(ctx context.Context, op *domain.Operation, templates []string) (string, error) {
	if len(templates) == 0 {
		return "", ErrNoTemplates
	}
	resources := uc.classifier.Classify(op)
	utterance := uc.templatizer.FromTemplate(*op, templates, resources, true)
	if utterance == "" {
		return "", ErrNoCanonical
	}
	return utterance, nil
}
