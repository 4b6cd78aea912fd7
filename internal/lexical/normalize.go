package lexical

import (
	"regexp"
	"strings"
)

var (
	camelRe = regexp.MustCompile(`(\w)([A-Z])`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Normalize rewrites an identifier or short phrase into lowercase
// space-separated words: separators and vendor prefixes are dropped and
// camelCase boundaries become word breaks. Placeholder markers ("<<", ">>")
// pass through untouched. All-caps acronyms are returned as-is.
func (s *Service) Normalize(text string) string {
	return s.normalize(text, false)
}

// NormalizeLemma normalizes and additionally reduces each word to its lemma
// (nouns to their singular form).
func (s *Service) NormalizeLemma(text string) string {
	return s.normalize(text, true)
}

func (s *Service) normalize(text string, lemmatize bool) string {
	if text == "" {
		return ""
	}
	if strings.EqualFold(text, "api") {
		return "API"
	}

	t := strings.TrimPrefix(text, "x-")
	for _, sep := range []string{"X-Amz-", "x-amz-", "$", "_", "-", "."} {
		t = strings.ReplaceAll(t, sep, " ")
	}

	if lemmatize {
		t = camelRe.ReplaceAllString(t, "$1 $2")
		var b strings.Builder
		for _, w := range strings.Fields(strings.ToLower(strings.TrimSpace(t))) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s.Singular(w))
		}
		t = b.String()
	}

	if t == strings.ToUpper(t) && !strings.Contains(t, " ") {
		return t
	}

	t = strings.ReplaceAll(t, "’", "'")
	t = camelRe.ReplaceAllString(t, "$1 $2")

	var out []string
	for _, w := range strings.Fields(t) {
		if w == "<<" || w == ">>" {
			out = append(out, w)
			continue
		}
		out = append(out, s.splitGlued(strings.ToLower(w))...)
	}

	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.Join(out, " "), " "))
}
