// Package lexical provides the linguistic judgments the pipeline depends on:
// word-level normalization, inflection, part-of-speech heuristics and edit
// distance. The Service is built once at startup and is safe for concurrent
// readers; it holds no mutable state.
package lexical

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/gertd/go-pluralize"
)

// TaggedWord pairs a token with its part-of-speech tag. Tags follow the Penn
// Treebank convention for the subset the pipeline inspects: VB, VBZ, NN, NNS,
// JJ, RB.
type TaggedWord struct {
	Token string
	Tag   string
}

// Tagger assigns part-of-speech tags to the tokens of a text. The default is
// the built-in heuristic tagger; a remote tagging service can be substituted
// as long as it honors the tag subset above.
type Tagger interface {
	Tag(text string) []TaggedWord
}

// Service bundles the lexical judgments used across classification, phrase
// generation and templatization.
type Service struct {
	inflect *pluralize.Client
	tagger  Tagger
}

// NewService builds the lexical service with the built-in heuristic tagger.
func NewService() *Service {
	s := &Service{inflect: pluralize.NewClient()}
	s.tagger = &heuristicTagger{svc: s}
	return s
}

// NewServiceWithTagger builds the lexical service around an external tagger.
func NewServiceWithTagger(t Tagger) *Service {
	s := &Service{inflect: pluralize.NewClient(), tagger: t}
	return s
}

// Tag delegates to the configured tagger.
func (s *Service) Tag(text string) []TaggedWord { return s.tagger.Tag(text) }

// Singular returns the singular form of a noun, or the word unchanged.
func (s *Service) Singular(word string) string {
	if word == "" {
		return word
	}
	return s.inflect.Singular(word)
}

// Plural returns the plural form of a noun, or the word unchanged.
func (s *Service) Plural(word string) string {
	if word == "" {
		return word
	}
	return s.inflect.Plural(word)
}

// IsSingular reports whether the word reads as a singular noun.
func (s *Service) IsSingular(word string) bool {
	if !s.IsNoun(word) {
		return false
	}
	return word == s.Singular(word)
}

// IsPlural reports whether the word reads as a plural noun.
func (s *Service) IsPlural(word string) bool {
	if !s.IsNoun(word) {
		return false
	}
	return word == s.Plural(word)
}

// IsNoun is deliberately permissive, mirroring dictionary lookups where most
// content words have a noun sense. Function words and non-alphabetic tokens
// are excluded.
func (s *Service) IsNoun(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" || !alphabetic(w) {
		return false
	}
	return !functionWords[w]
}

// IsVerb reports whether the word has a known verb sense.
func (s *Service) IsVerb(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if verbLexicon[w] {
		return true
	}
	// third-person and participle forms of known verbs
	for _, suffix := range []string{"s", "ed", "ing"} {
		if base, ok := strings.CutSuffix(w, suffix); ok && verbLexicon[base] {
			return true
		}
	}
	return false
}

// IsAdjective reports whether the word has a known adjective sense.
func (s *Service) IsAdjective(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if adjectiveLexicon[w] {
		return true
	}
	for _, suffix := range []string{"able", "ible", "ful", "ous", "ive", "ant", "ent", "al", "ic"} {
		if strings.HasSuffix(w, suffix) && len(w) > len(suffix)+2 {
			return true
		}
	}
	return false
}

// LemmatizeVerb reduces an inflected verb to its base form.
func (s *Service) LemmatizeVerb(word string) string {
	w := strings.ToLower(word)
	if base, ok := irregularVerbs[w]; ok {
		return base
	}
	if base, ok := strings.CutSuffix(w, "ies"); ok && len(base) > 1 {
		return base + "y"
	}
	if base, ok := strings.CutSuffix(w, "es"); ok && verbLexicon[base] {
		return base
	}
	if base, ok := strings.CutSuffix(w, "s"); ok && len(base) > 1 && !strings.HasSuffix(base, "s") {
		return base
	}
	return w
}

// Distance returns the edit distance between two strings normalized by their
// combined length, in [0, 1).
func (s *Service) Distance(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(len(a)+len(b))
}

var alphaRe = regexp.MustCompile(`^[a-z]+$`)

func alphabetic(w string) bool { return alphaRe.MatchString(w) }

// heuristicTagger implements Tagger with suffix and lexicon rules. It is not
// a general tagger; it covers the distinctions the pipeline actually makes.
type heuristicTagger struct {
	svc *Service
}

func (t *heuristicTagger) Tag(text string) []TaggedWord {
	var ret []TaggedWord
	for _, token := range strings.Fields(text) {
		ret = append(ret, TaggedWord{Token: token, Tag: t.tagOne(strings.ToLower(token))})
	}
	return ret
}

func (t *heuristicTagger) tagOne(w string) string {
	switch {
	case verbLexicon[w]:
		return "VB"
	case strings.HasSuffix(w, "s") && verbLexicon[strings.TrimSuffix(w, "s")]:
		return "VBZ"
	case strings.HasSuffix(w, "es") && verbLexicon[strings.TrimSuffix(w, "es")]:
		return "VBZ"
	case strings.HasSuffix(w, "ly") && len(w) > 3:
		return "RB"
	case adjectiveLexicon[w]:
		return "JJ"
	case t.svc.IsPlural(w):
		return "NNS"
	default:
		return "NN"
	}
}
