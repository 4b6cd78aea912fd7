// Package phrase turns a classified resource sequence, or an operation's
// free-text summary, into a phrase skeleton, and normalizes phrase skeletons
// into canonical utterances.
package phrase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

// ValueSampler supplies example values for parameters when sampling is
// requested on the generation path.
type ValueSampler interface {
	Sample(p domain.Param, n int) []string
}

// Generator is the rule-based phrase generator: an ordered cascade of shape
// matchers keyed on the resource-type sequence and HTTP verb. The first
// matcher whose guard passes and which produces a non-empty phrase wins; the
// cascade is not scored.
type Generator struct {
	lex     *lexical.Service
	sampler ValueSampler
	rules   []rule
	logger  *slog.Logger
}

type rule struct {
	name  string
	apply func(verb string, resources []domain.Resource, sample bool) string
}

// NewGenerator creates the generator with its statically declared rule
// order. The sampler may be nil; parameter placeholders are used instead of
// sampled values in that case.
func NewGenerator(lex *lexical.Service, sampler ValueSampler, logger *slog.Logger) *Generator {
	g := &Generator{
		lex:     lex,
		sampler: sampler,
		logger:  logger.With("component", "rule_generator"),
	}
	g.rules = []rule{
		{"collection", g.translateCollection},
		{"collection_adjective", g.translateCollectionAdjective},
		{"collection_verb", g.translateCollectionVerb},
		{"singleton", g.translateSingleton},
		{"singleton_action", g.translateSingletonAction},
		{"singleton_collection", g.translateSingletonCollection},
		{"singleton_collection_action", g.translateSingletonCollectionAction},
		{"singleton_collection_adjective", g.translateSingletonCollectionAdjective},
		{"singleton_singleton", g.translateSingletonSingleton},
		{"singleton_singleton_action", g.translateSingletonSingletonAction},
	}
	return g
}

// Generate runs the cascade and returns the phrase skeleton, or "" when no
// rule matches the verb and resource shape.
func (g *Generator) Generate(verb string, resources []domain.Resource, sample bool) string {
	for _, r := range g.rules {
		if phrase := r.apply(verb, resources, sample); phrase != "" {
			g.logger.Debug("Rule matched.", slog.String("rule", r.name), slog.String("verb", verb))
			return phrase
		}
	}
	return ""
}

// paramValue renders the parameter slot, either as a sampled example or as a
// placeholder tag carrying the raw parameter name.
func (g *Generator) paramValue(p *domain.Param, sample bool) string {
	val := p.Name
	if sample && g.sampler != nil {
		if vals := g.sampler.Sample(*p, 1); len(vals) > 0 {
			val = vals[0]
		}
	}
	return fmt.Sprintf("<< %s >>", val)
}

func (g *Generator) trimVerbPrefix(resource string) string {
	for _, key := range []string{"get ", "set ", "create ", "put ", "delete "} {
		resource = strings.TrimPrefix(resource, key)
	}
	return resource
}

func verbIn(verb string, set ...string) bool {
	for _, v := range set {
		if verb == v {
			return true
		}
	}
	return false
}

func (g *Generator) translateCollection(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "post", "delete") || len(resources) != 1 {
		return ""
	}

	if resources[0].Type == domain.ResourceAction {
		ret := g.lex.Normalize(resources[0].Name)
		for _, w := range strings.Fields(ret) {
			if !g.lex.IsNecessarySegment(w) {
				return ""
			}
		}
		words := strings.Fields(ret)
		if len(words) == 0 || !g.lex.IsVerb(words[0]) ||
			strings.HasSuffix(ret, "ing") || strings.HasSuffix(ret, "s") {
			return ""
		}
		return ret
	}

	if resources[0].Type != domain.ResourceCollection {
		return ""
	}

	resource := g.trimVerbPrefix(g.lex.Normalize(resources[0].Name))

	switch verb {
	case "post":
		return fmt.Sprintf("create a %s", g.lex.Singular(resource))
	case "delete":
		return fmt.Sprintf("delete all %s", resource)
	}
	if g.lex.IsSingular(resource) || strings.Contains(resource, " ") {
		return fmt.Sprintf("get the %s", resource)
	}
	return fmt.Sprintf("get the list of %s", resource)
}

func (g *Generator) translateCollectionAdjective(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "delete") || len(resources) != 2 {
		return ""
	}
	if resources[0].Type != domain.ResourceAttribute || resources[1].Type != domain.ResourceCollection {
		return ""
	}

	adjective := g.lex.Normalize(resources[0].Name)
	resource := g.trimVerbPrefix(g.lex.Normalize(resources[1].Name))

	if verb == "delete" {
		return fmt.Sprintf("delete all %s %s", adjective, resource)
	}
	if g.lex.IsSingular(resource) || strings.Contains(resource, " ") {
		return fmt.Sprintf("get the %s %s", adjective, resource)
	}
	return fmt.Sprintf("get the list of %s %s", adjective, resource)
}

func (g *Generator) translateCollectionVerb(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "post", "delete") || len(resources) != 2 {
		return ""
	}
	if resources[0].Type != domain.ResourceAction || resources[1].Type != domain.ResourceCollection {
		return ""
	}
	return fmt.Sprintf("%s the %s", g.lex.Normalize(resources[0].Name), g.lex.Normalize(resources[1].Name))
}

func (g *Generator) translateSingleton(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "patch", "delete", "put") || len(resources) != 1 {
		return ""
	}
	if resources[0].Type != domain.ResourceSingleton || resources[0].Param == nil {
		return ""
	}

	resource := g.lex.Singular(g.lex.Normalize(resources[0].Name))
	value := g.paramValue(resources[0].Param, sample)
	action := map[string]string{"get": "get", "patch": "update", "delete": "delete", "put": "replace"}[verb]

	return fmt.Sprintf("%s a %s with %s being %s",
		action, resource, g.lex.Normalize(resources[0].Param.Name), value)
}

func (g *Generator) translateSingletonAction(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "patch", "delete", "put") || len(resources) != 2 {
		return ""
	}
	if resources[0].Type != domain.ResourceAction || resources[1].Type != domain.ResourceSingleton ||
		resources[1].Param == nil {
		return ""
	}

	resource := g.lex.Singular(g.lex.Normalize(resources[1].Name))
	value := g.paramValue(resources[1].Param, sample)

	action := g.lex.Normalize(resources[0].Name)
	if strings.HasSuffix(action, "ed") {
		action = action[:len(action)-1]
	}

	return fmt.Sprintf("%s a %s with %s being %s",
		action, resource, g.lex.Normalize(resources[1].Param.Name), value)
}

func (g *Generator) translateSingletonCollection(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "post", "delete") || len(resources) != 2 {
		return ""
	}
	if resources[0].Type != domain.ResourceCollection || resources[1].Type != domain.ResourceSingleton ||
		resources[1].Param == nil {
		return ""
	}

	resource := g.lex.Normalize(g.lex.Singular(resources[1].Name))
	collection := g.lex.Normalize(resources[0].Name)
	param := g.lex.Normalize(resources[1].Param.Name)
	value := g.paramValue(resources[1].Param, sample)

	switch verb {
	case "post":
		return fmt.Sprintf("create a %s for a %s with %s being %s",
			g.lex.Singular(collection), g.lex.Singular(resource), param, value)
	case "delete":
		return fmt.Sprintf("delete the %s of a %s with %s being %s",
			collection, g.lex.Singular(resource), param, value)
	}
	if g.lex.IsSingular(collection) {
		return fmt.Sprintf("get the %s of a %s with %s being %s", collection, resource, param, value)
	}
	return fmt.Sprintf("get the list of %s of a %s with %s being %s", collection, resource, param, value)
}

func (g *Generator) translateSingletonCollectionAction(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "post", "delete") || len(resources) != 3 {
		return ""
	}
	if resources[0].Type != domain.ResourceAction || resources[1].Type != domain.ResourceCollection ||
		resources[2].Type != domain.ResourceSingleton || resources[2].Param == nil {
		return ""
	}

	resource := g.lex.Normalize(g.lex.Singular(resources[2].Name))
	collection := g.lex.Normalize(resources[1].Name)
	action := g.lex.Normalize(resources[0].Name)
	value := g.paramValue(resources[2].Param, sample)

	return fmt.Sprintf("%s all %s of a %s with %s being %s",
		action, collection, resource, g.lex.Normalize(resources[2].Name), value)
}

func (g *Generator) translateSingletonCollectionAdjective(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "post", "delete") || len(resources) != 3 {
		return ""
	}
	if resources[0].Type != domain.ResourceAttribute || resources[1].Type != domain.ResourceCollection ||
		resources[2].Type != domain.ResourceSingleton || resources[2].Param == nil {
		return ""
	}

	resource := g.lex.Normalize(g.lex.Singular(resources[2].Name))
	collection := g.lex.Normalize(resources[1].Name)
	adjective := g.lex.Normalize(resources[0].Name)
	param := g.lex.Normalize(resources[2].Param.Name)
	value := g.paramValue(resources[2].Param, sample)

	switch verb {
	case "post":
		return fmt.Sprintf("create all %s %s for a %s with %s being %s",
			adjective, g.lex.Singular(collection), g.lex.Singular(resource), param, value)
	case "delete":
		return fmt.Sprintf("delete all %s %s of a %s with %s being %s",
			adjective, collection, g.lex.Singular(resource), param, value)
	}
	if g.lex.IsSingular(collection) {
		return fmt.Sprintf("get the %s %s of a %s with %s being %s",
			adjective, collection, resource, param, value)
	}
	return fmt.Sprintf("get the list of %s %s of a %s with %s being %s",
		adjective, collection, resource, param, value)
}

func (g *Generator) translateSingletonSingleton(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "patch", "delete", "put") || len(resources) != 2 {
		return ""
	}
	if resources[0].Type != domain.ResourceSingleton || resources[1].Type != domain.ResourceSingleton ||
		resources[0].Param == nil || resources[1].Param == nil {
		return ""
	}

	first := g.lex.Normalize(g.lex.Singular(resources[0].Name))
	second := g.lex.Normalize(g.lex.Singular(resources[1].Name))
	value1 := g.paramValue(resources[0].Param, sample)
	value2 := g.paramValue(resources[1].Param, sample)
	action := map[string]string{"get": "get", "patch": "update", "delete": "delete", "put": "replace"}[verb]

	return fmt.Sprintf("%s a %s with %s being %s for a %s with %s being %s",
		action, first, g.lex.Normalize(resources[0].Param.Name), value1,
		second, g.lex.Normalize(resources[1].Param.Name), value2)
}

func (g *Generator) translateSingletonSingletonAction(verb string, resources []domain.Resource, sample bool) string {
	if !verbIn(verb, "get", "patch", "delete", "put") || len(resources) != 3 {
		return ""
	}
	if resources[1].Type != domain.ResourceSingleton || resources[2].Type != domain.ResourceSingleton ||
		!resources[0].Type.Controller() ||
		resources[1].Param == nil || resources[2].Param == nil {
		return ""
	}

	first := g.lex.Normalize(g.lex.Singular(resources[1].Name))
	second := g.lex.Normalize(g.lex.Singular(resources[2].Name))
	value1 := g.paramValue(resources[1].Param, sample)
	value2 := g.paramValue(resources[2].Param, sample)

	action := g.lex.Normalize(resources[1].Name)
	if strings.HasSuffix(action, "ed") {
		action = action[:len(action)-1]
	}

	param := g.lex.Normalize(resources[1].Param.Name)
	return fmt.Sprintf("%s a %s with %s being %s for a %s with %s being %s",
		action, first, param, value1, second, param, value2)
}
