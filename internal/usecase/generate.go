package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
)

// Translator names one canonical generation strategy.
type Translator string

const (
	TranslatorRule    Translator = "RULE"
	TranslatorSummary Translator = "SUMMARY"
)

// GenerateOptions tunes a canonical generation pass.
type GenerateOptions struct {
	// Translators to run. Empty means all.
	Translators []Translator
	// SampleValues renders sampled example values instead of parameter
	// name placeholders on the rule-based path.
	SampleValues bool
	// IgnoreNonPathParams suppresses the extra per-parameter canonical
	// views for query, header and body parameters.
	IgnoreNonPathParams bool
	// RuleOverrides makes a successful rule-based result replace the
	// summary-based canonicals instead of being appended after them.
	RuleOverrides bool
}

func (o GenerateOptions) wants(t Translator) bool {
	if len(o.Translators) == 0 {
		return true
	}
	for _, tr := range o.Translators {
		if tr == t {
			return true
		}
	}
	return false
}

// GenerateCanonicalsUseCase runs the full pipeline for a set of operations:
// resource classification, then summary-based and rule-based canonical
// generation.
type GenerateCanonicalsUseCase struct {
	source     SpecSource
	classifier *classify.Classifier
	rules      *phrase.Generator
	extractor  *phrase.Extractor
	norm       *phrase.Normalizer
	lex        *lexical.Service
	logger     *slog.Logger
}

func NewGenerateCanonicalsUseCase(
	source SpecSource,
	classifier *classify.Classifier,
	rules *phrase.Generator,
	extractor *phrase.Extractor,
	norm *phrase.Normalizer,
	lex *lexical.Service,
	logger *slog.Logger,
) *GenerateCanonicalsUseCase {
	return &GenerateCanonicalsUseCase{
		source:     source,
		classifier: classifier,
		rules:      rules,
		extractor:  extractor,
		norm:       norm,
		lex:        lex,
		logger:     logger.With("usecase", "GenerateCanonicals"),
	}
}

// ExecuteSource loads the document and generates canonicals for all of its
// operations.
func (uc *GenerateCanonicalsUseCase) ExecuteSource(ctx context.Context, source string, opts GenerateOptions) (*domain.API, error) {
	log := uc.logger.With(slog.String("source", source))
	log.Info("Loading API description")

	api, err := uc.source.Load(ctx, source)
	if err != nil {
		log.Error("Failed to load API description", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load API description from %s: %w", source, err)
	}

	uc.Execute(ctx, api.Operations, opts)
	log.Info("Generated canonicals", slog.Int("operation_count", len(api.Operations)))
	return api, nil
}

// Execute generates canonicals for the operations in place.
func (uc *GenerateCanonicalsUseCase) Execute(ctx context.Context, ops []domain.Operation, opts GenerateOptions) {
	for i := range ops {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ops[i].Canonicals = uc.Translate(&ops[i], opts)
	}
}

// Translate generates the canonical views for one operation. The summary
// translator runs first; the rule translator either appends to or, with
// RuleOverrides, replaces its output. Returns nil when neither produced an
// utterance.
func (uc *GenerateCanonicalsUseCase) Translate(op *domain.Operation, opts GenerateOptions) []domain.Canonical {
	if op.Intent == "" {
		op.Intent = op.DefaultIntent()
	}
	resources := uc.classifier.Classify(op)

	var canonicals []domain.Canonical
	if opts.wants(TranslatorSummary) {
		canonicals = uc.summaryCanonicals(op, resources, opts.IgnoreNonPathParams)
	}
	if opts.wants(TranslatorRule) {
		ruled := uc.ruleCanonicals(op, resources, opts)
		if len(ruled) > 0 {
			if opts.RuleOverrides {
				canonicals = ruled
			} else {
				canonicals = append(canonicals, ruled...)
			}
		}
	}

	if len(canonicals) == 0 {
		uc.logger.Debug("No canonical generated.",
			slog.String("verb", op.Verb), slog.String("url", op.URL))
	}
	return canonicals
}

// ruleCanonicals runs the matcher cascade over the classified resources and
// expands the winning phrase into canonical views.
func (uc *GenerateCanonicalsUseCase) ruleCanonicals(op *domain.Operation, resources []domain.Resource, opts GenerateOptions) []domain.Canonical {
	if len(resources) == 0 {
		return nil
	}

	raw := uc.rules.Generate(op.Verb, resources, opts.SampleValues)
	if raw == "" {
		return nil
	}
	canonical := uc.norm.FinalizeUtterance(raw, true)

	entityParams := uc.entityParams(op)
	pathParams := filterLocation(entityParams, domain.InPath, true)

	ret := []domain.Canonical{{Intent: op.Intent, Utterance: canonical, Params: pathParams}}
	if opts.IgnoreNonPathParams {
		return ret
	}

	for _, p := range filterLocation(entityParams, domain.InPath, false) {
		params := append([]domain.Param{p}, pathParams...)
		ret = append(ret, domain.Canonical{
			Intent:    op.Intent,
			Utterance: canonical + uc.norm.ToParametersPostfix([]domain.Param{p}),
			Params:    params,
		})
	}
	return ret
}

// summaryCanonicals derives the canonical from the operation's summary or
// description. Path parameters the extractor could not bind into the
// utterance are appended as a trailing "for" clause.
func (uc *GenerateCanonicalsUseCase) summaryCanonicals(op *domain.Operation, resources []domain.Resource, ignoreNonPath bool) []domain.Canonical {
	entityParams := uc.entityParams(op)
	pathParams := filterLocation(entityParams, domain.InPath, true)

	unbound, intent := uc.extractor.ToIntent(*op, pathParams, resources)
	if intent == "" {
		return nil
	}

	canonical := uc.norm.FinalizeUtterance(intent, true)
	if len(unbound) > 0 {
		canonical += " for " + uc.norm.ToEntities(unbound)
	}

	ret := []domain.Canonical{{Intent: op.Intent, Utterance: canonical, Params: unbound}}
	if ignoreNonPath {
		return ret
	}

	for _, p := range filterLocation(entityParams, domain.InPath, false) {
		params := append([]domain.Param{p}, unbound...)
		ret = append(ret, domain.Canonical{
			Intent:    op.Intent,
			Utterance: canonical + uc.norm.ToParametersPostfix([]domain.Param{p}),
			Params:    params,
		})
	}
	return ret
}

func (uc *GenerateCanonicalsUseCase) entityParams(op *domain.Operation) []domain.Param {
	var ret []domain.Param
	for _, p := range op.Params {
		if uc.lex.IsEntityParam(p) {
			ret = append(ret, p)
		}
	}
	return ret
}

func filterLocation(params []domain.Param, loc domain.ParamLocation, match bool) []domain.Param {
	var ret []domain.Param
	for _, p := range params {
		if (p.Location == loc) == match {
			ret = append(ret, p)
		}
	}
	return ret
}
