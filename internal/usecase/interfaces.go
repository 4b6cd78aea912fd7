package usecase

import (
	"context"
	"errors"

	"github.com/api2can/api2can/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrNoResources = errors.New("no resources extracted from operation url")
	ErrNoCanonical = errors.New("no canonical utterance generated")
	ErrNoTemplates = errors.New("template bank is empty")
)

// SpecSource loads REST operations from an API description document. The
// source is a file path or a URL understood by the adapter.
type SpecSource interface {
	Load(ctx context.Context, source string) (*domain.API, error)
}

// ValueSampler supplies example values for a parameter.
type ValueSampler interface {
	Sample(p domain.Param, n int) []string
}

// TemplateStore persists and retrieves utterance templates keyed by the
// operation's resource sequence signature.
type TemplateStore interface {
	Add(signature, template string)
	Templates(signature string) []string
	Len() int
}
