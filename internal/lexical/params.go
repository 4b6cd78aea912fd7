package lexical

import (
	"strings"

	"github.com/api2can/api2can/internal/domain"
)

// SpellChecker is the subset of the grammar service the lexical helpers need.
type SpellChecker interface {
	Misspellings(sentence string) []string
	CorrectSpelling(sentence string) string
}

// IsBraced reports whether a URL segment is a path parameter token, i.e.
// "{name}".
func IsBraced(segment string) bool {
	return segment != "" && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

// TrimBraces strips the surrounding braces from a path parameter token.
func TrimBraces(segment string) string {
	return strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
}

var authTerms = []string{"token", "api key", "key", "api token", "x-aio-key", "aio-key", "x-aio-signature", "accesstoken"}

// IsAuthTerm reports whether a segment or parameter name refers to
// authentication material.
func (s *Service) IsAuthTerm(name string) bool {
	n := s.Normalize(name)
	terms := fieldSet(n)
	for _, t := range authTerms {
		if strings.Contains(t, " ") {
			if strings.Contains(n, t) {
				return true
			}
		} else if terms[t] {
			return true
		}
	}
	return false
}

var versionTerms = []string{"version", "versions", "v", "v0", "ver", "v1", "v2", "v3", "v4", "v5"}

// IsVersionTerm reports whether a segment or parameter name is an API
// version marker.
func (s *Service) IsVersionTerm(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, "v1") || strings.HasPrefix(name, "v2") {
		return true
	}
	n := s.Normalize(name)
	terms := fieldSet(n)
	for _, t := range versionTerms {
		if terms[t] || strings.HasPrefix(n, t+".") || strings.HasPrefix(n, t+"_") || strings.HasPrefix(n, t+"-") {
			return true
		}
	}
	return false
}

var identifierTerms = buildSet(
	"id", "key", "identifier", "ids", "sid", "token", "credential",
	"credentials", "guid", "uuid", "code", "serial",
)

// IsIdentifier reports whether a parameter name denotes an identifier value.
func (s *Service) IsIdentifier(name string) bool {
	n := s.NormalizeLemma(s.Normalize(name))
	for t := range fieldSet(n) {
		if identifierTerms[t] {
			return true
		}
	}
	return strings.HasSuffix(n, "id")
}

// IsNecessarySegment reports whether a URL segment or parameter name should
// surface in a canonical sentence. Version and authentication markers, and a
// handful of account-scoped names, never do.
func (s *Service) IsNecessarySegment(name string) bool {
	if s.IsVersionTerm(name) || s.IsAuthTerm(name) {
		return false
	}
	switch name {
	case "username", "user", "account", "user_name":
		return false
	}
	return true
}

// IsEntityParam reports whether a parameter may appear in a canonical
// utterance. Header and file parameters, authentication and versioning
// parameters are excluded.
func (s *Service) IsEntityParam(p domain.Param) bool {
	if p.Location == domain.InHeader || p.Location == domain.InFile {
		return false
	}
	if p.IsAuth || s.IsVersionTerm(p.Name) {
		return false
	}
	if p.Name == "username" {
		return false
	}
	return true
}

// HumanReadableName renders a parameter name for inclusion in a sentence.
// The normalized name wins unless it is misspelled, in which case a
// long-enough description or the spell-corrected name is used instead.
func (s *Service) HumanReadableName(p domain.Param, sc SpellChecker) string {
	const descThreshold = 20
	name := s.Normalize(p.Name)
	desc := s.Normalize(p.Desc)

	if sc == nil || len(sc.Misspellings(name)) == 0 {
		return name
	}
	if desc != "" && len(desc) > descThreshold {
		return sc.CorrectSpelling(name)
	}
	if desc != "" && len(sc.Misspellings(desc)) == 0 {
		return desc
	}
	return name
}

func fieldSet(s string) map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		m[w] = true
	}
	return m
}
