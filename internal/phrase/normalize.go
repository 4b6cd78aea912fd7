package phrase

import (
	"strings"
	"unicode"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

// GrammarChecker corrects grammatical errors in an utterance. Corrections
// can be restricted to rule categories such as "MISC" or "GRAMMAR".
// CorrectWord applies the first suggested correction for a single word,
// returning the word unchanged when there is none.
type GrammarChecker interface {
	Correct(text string, categories []string) string
	CorrectWord(word string) string
}

// NoopGrammarChecker returns text unchanged. It stands in when no grammar
// service is configured.
type NoopGrammarChecker struct{}

func (NoopGrammarChecker) Correct(text string, _ []string) string { return text }

func (NoopGrammarChecker) CorrectWord(word string) string { return word }

// Normalizer rewrites phrase skeletons into canonical utterance form. All of
// its rewrites are idempotent: normalizing an already-normalized utterance
// leaves it unchanged.
type Normalizer struct {
	lex     *lexical.Service
	grammar GrammarChecker
	spell   lexical.SpellChecker
}

func NewNormalizer(lex *lexical.Service, grammar GrammarChecker, spell lexical.SpellChecker) *Normalizer {
	if grammar == nil {
		grammar = NoopGrammarChecker{}
	}
	return &Normalizer{lex: lex, grammar: grammar, spell: spell}
}

var fileExtensions = []string{
	" pdf", " json", " swagger", " html", " xhtml", " csv", " tsv", " doc", " txt", " docx",
	" tif", " xml", " xls", " fmw", " yaml",
}

var fillerPhrases = []string{
	" details of", " details", " specified", " available", " selected", " to database",
	" for current user", " one or more", " an existing",
}

// truncationKeys mark trailing qualifier clauses. The utterance is cut at the
// first occurrence of any of them.
var truncationKeys = []string{
	"matching", "filtered by", "that match", "within the", "by setting the values", "for that",
	"for this", "for which", "which", "using the provided", "using the", "for a given",
	"that", "by specifying", "identified in", "by this account", "identified by", "having",
	"for the currently logged", "for the currently authenticated user", "for a user", "given a",
	"given an", "for the given", "in the given", "for the authenticated user", "for a specific",
}

// FinalizeUtterance canonicalizes a raw phrase: drops filler and qualifier
// clauses, fixes list phrasing, inserts articles after mutation verbs, strips
// digits and collapses whitespace. With trimSentences false the clause
// truncation passes are skipped, which suits already-curated text.
func (n *Normalizer) FinalizeUtterance(text string, trimSentences bool) string {
	canonical := text
	if canonical == "" {
		return ""
	}

	if trimSentences {
		canonical = strings.TrimPrefix(canonical, "will ")

		for _, ext := range fileExtensions {
			canonical = strings.ReplaceAll(canonical, ext, " ")
		}
		for _, key := range fillerPhrases {
			canonical = strings.ReplaceAll(canonical, key, " ")
		}
		for _, key := range truncationKeys {
			if idx := strings.Index(canonical, key); idx >= 0 {
				canonical = canonical[:idx]
			}
		}
	}

	for _, key := range []string{" me ", " you ", " your "} {
		canonical = strings.ReplaceAll(canonical, key, " my ")
	}
	canonical = strings.ReplaceAll(canonical, " the current user", " me")

	if strings.HasPrefix(canonical, "list") && !strings.HasPrefix(canonical, "list of") {
		canonical = "get the list of" + canonical[4:]
	} else if strings.HasPrefix(canonical, "list of") {
		canonical = "get the " + canonical
	}

	canonical = strings.ReplaceAll(canonical, "a list of", "the list of")

	if strings.Contains(canonical, " all ") && !strings.Contains(canonical, "the list of all") {
		canonical = strings.ReplaceAll(canonical, " all ", " the list of ")
	}

	canonical = strings.ReplaceAll(canonical, "get the list of all ", "get the list of ")
	canonical = strings.ReplaceAll(canonical, "get search ", "search ")

	if strings.HasPrefix(canonical, "create a ") && !strings.HasPrefix(canonical, "create a new ") {
		canonical = strings.ReplaceAll(canonical, "create a ", "create a new ")
	}

	for _, key := range []string{"create", "replace", "delete", "remove", "update"} {
		if strings.HasPrefix(canonical, key) && !strings.HasPrefix(canonical, key+" a ") {
			canonical = strings.ReplaceAll(canonical, key+" ", key+" a ")
		}
	}

	canonical = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, canonical)

	return strings.Join(strings.Fields(canonical), " ")
}

// PluralToSingularEdit fixes plural noun agreement: singleton resource names
// become singular with an article, and plural nouns right after an article or
// stacked before another plural are singularized.
func (n *Normalizer) PluralToSingularEdit(canonical string, resources []domain.Resource) string {
	for _, resource := range resources {
		if resource.Type != domain.ResourceSingleton {
			continue
		}
		canonical = strings.ReplaceAll(canonical, resource.Name, "a "+n.lex.Singular(resource.Name))
		canonical = strings.ReplaceAll(canonical, " the a ", " a ")
		canonical = strings.ReplaceAll(canonical, " a a ", " a ")
		canonical = strings.ReplaceAll(canonical, " an a ", " a ")
		canonical = strings.ReplaceAll(canonical, " a an ", " a ")
	}

	canonical = strings.ToLower(n.grammar.Correct(canonical, []string{"MISC"}))
	tokens := strings.Fields(canonical)

	// Singularize up to two tokens following an article.
	ret := make([]string, 0, len(tokens))
	seenArticle := -20
	for _, token := range tokens {
		if token == "a" || token == "an" {
			seenArticle = 0
		}
		if seenArticle > 0 && seenArticle < 3 && !n.isSingularToken(token) {
			ret = append(ret, n.lex.Singular(token))
			seenArticle = 0
			continue
		}
		ret = append(ret, token)
		seenArticle++
	}

	// Collapse runs of consecutive plurals, keeping only the last plural.
	out := make([]string, len(ret))
	prevPlural := false
	for i := len(ret) - 1; i >= 0; i-- {
		token := ret[i]
		if !n.isSingularToken(token) {
			if prevPlural {
				token = n.lex.Singular(token)
			}
			prevPlural = true
		} else {
			prevPlural = false
		}
		out[i] = token
	}

	joined := strings.Join(out, " ")
	joined = strings.ReplaceAll(joined, "< <", "<<")
	return strings.ReplaceAll(joined, "> >", ">>")
}

// isSingularToken treats anything that does not read as a plural noun, such
// as placeholder markers and function words, as singular so it never gets
// rewritten.
func (n *Normalizer) isSingularToken(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return true
		}
	}
	return !n.lex.IsPlural(token)
}

// ToParametersPostfix renders the trailing "with x being << y >>" clause for
// the operation's non-path entity parameters.
func (n *Normalizer) ToParametersPostfix(params []domain.Param) string {
	var nonPath []domain.Param
	for _, p := range params {
		if n.lex.IsEntityParam(p) && p.Location != domain.InPath {
			nonPath = append(nonPath, p)
		}
	}
	if len(nonPath) == 0 {
		return ""
	}
	return " with " + n.ToEntities(nonPath)
}

// ToEntities joins entity phrases with commas and a final "and".
func (n *Normalizer) ToEntities(params []domain.Param) string {
	var b strings.Builder
	for i, p := range params {
		sep := ""
		if len(params) > 1 {
			sep = ", "
			if i == len(params)-2 {
				if len(params) == 2 {
					sep = " and "
				} else {
					sep = ", and "
				}
			} else if i == len(params)-1 {
				sep = ""
			}
		}
		b.WriteString(n.EntityPhrase(p))
		b.WriteString(sep)
	}
	return b.String()
}

// EntityPhrase renders one parameter as a "name being << param >>" fragment,
// with the human readable name on the left and the raw parameter name as the
// placeholder tag.
func (n *Normalizer) EntityPhrase(p domain.Param) string {
	name := n.lex.HumanReadableName(p, n.spell)
	return name + " being << " + p.Name + " >>"
}
