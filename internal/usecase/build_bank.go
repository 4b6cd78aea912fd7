package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/template"
)

// BuildTemplateBankUseCase mines delexicalized templates from API
// descriptions: each operation's canonical utterance has its resource and
// parameter mentions replaced by placeholder ids, and the result is stored
// under the operation's resource sequence signature.
type BuildTemplateBankUseCase struct {
	generator   *GenerateCanonicalsUseCase
	classifier  *classify.Classifier
	templatizer *template.Templatizer
	store       TemplateStore
	logger      *slog.Logger
}

func NewBuildTemplateBankUseCase(
	generator *GenerateCanonicalsUseCase,
	classifier *classify.Classifier,
	templatizer *template.Templatizer,
	store TemplateStore,
	logger *slog.Logger,
) *BuildTemplateBankUseCase {
	return &BuildTemplateBankUseCase{
		generator:   generator,
		classifier:  classifier,
		templatizer: templatizer,
		store:       store,
		logger:      logger.With("usecase", "BuildTemplateBank"),
	}
}

// BankStats summarizes one bank-building pass.
type BankStats struct {
	Operations int
	Templated  int
	Skipped    int
}

// Execute mines templates from every source document. Operations without a
// canonical or without a resource signature are skipped, not failed.
func (uc *BuildTemplateBankUseCase) Execute(ctx context.Context, sources []string) (BankStats, error) {
	var stats BankStats
	opts := GenerateOptions{IgnoreNonPathParams: true, RuleOverrides: true}

	for _, source := range sources {
		api, err := uc.generator.ExecuteSource(ctx, source, opts)
		if err != nil {
			return stats, fmt.Errorf("mining templates from %s: %w", source, err)
		}

		for i := range api.Operations {
			op := &api.Operations[i]
			stats.Operations++

			if len(op.Canonicals) == 0 {
				stats.Skipped++
				continue
			}

			resources := uc.classifier.Classify(op)
			signature, resources := uc.templatizer.ResourceSequence(*op, resources)
			if signature == "" {
				stats.Skipped++
				continue
			}

			tpl := uc.templatizer.ToTemplate(*op, op.Canonicals[0].Utterance, resources)
			uc.store.Add(signature, tpl)
			stats.Templated++
		}
	}

	uc.logger.Info("Template bank built",
		slog.Int("operations", stats.Operations),
		slog.Int("templated", stats.Templated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("bank_size", uc.store.Len()))
	return stats, nil
}
