// Package template delexicalizes canonical utterances into reusable
// templates and lexicalizes templates back into utterances for new
// operations.
package template

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
)

// Templatizer rewrites utterances to and from placeholder form. Placeholder
// ids are per-type counters such as "Collection_2"; a Singleton resource
// owns a Collection id for its name and a Singleton id for its parameter.
type Templatizer struct {
	lex     *lexical.Service
	grammar phrase.GrammarChecker
	spell   lexical.SpellChecker
	logger  *slog.Logger
}

func New(lex *lexical.Service, grammar phrase.GrammarChecker, spell lexical.SpellChecker, logger *slog.Logger) *Templatizer {
	if grammar == nil {
		grammar = phrase.NoopGrammarChecker{}
	}
	return &Templatizer{lex: lex, grammar: grammar, spell: spell, logger: logger.With("component", "templatizer")}
}

// operationIDPhrase canonicalizes an operation id for placeholder use. It
// returns the processed phrase and whether the id qualifies as a template
// placeholder, which requires a multi-word id led by a verb.
func (t *Templatizer) operationIDPhrase(operationID string) (string, bool) {
	if operationID == "" {
		return "", false
	}
	id := strings.ReplaceAll(operationID, "post", "")
	id = t.lex.Normalize(id)
	if idx := strings.Index(id, " by "); idx >= 0 {
		id = id[:idx]
	}
	words := strings.Fields(id)
	if len(words) <= 1 || !t.lex.IsVerb(words[0]) {
		return id, false
	}
	return id, true
}

// ResourceSequence assigns placeholder ids to the resources and renders the
// operation's shape signature, e.g. "get OperationID Collection_1
// Singleton_1". Leading unnecessary unknown parameters and Version and All
// resources are dropped. The signature is "" when nothing but the verb
// remains.
func (t *Templatizer) ResourceSequence(op domain.Operation, resources []domain.Resource) (string, []domain.Resource) {
	counter := make(map[domain.ResourceType]int, len(domain.ResourceTypes))
	for _, rt := range domain.ResourceTypes {
		counter[rt] = 1
	}

	// Resources are leaf first, so the tail of the slice is the start of
	// the URL.
	drop := 0
	for i := len(resources) - 1; i >= 0; i-- {
		if i == 0 {
			break
		}
		r := resources[i]
		if r.Type == domain.ResourceUnknownParam && (!r.IsParam || !t.lex.IsNecessarySegment(r.Name)) {
			drop++
			continue
		}
		break
	}
	resources = resources[:len(resources)-drop]

	kept := resources[:0:0]
	for _, r := range resources {
		if r.Type == domain.ResourceVersion || r.Type == domain.ResourceAll {
			continue
		}
		kept = append(kept, r)
	}

	ret := []string{op.Verb}
	if _, ok := t.operationIDPhrase(op.OperationID); ok {
		ret = append(ret, "OperationID")
	}

	for i := range kept {
		rs := &kept[i]
		if rs.Type == domain.ResourceSingleton {
			collID := string(domain.ResourceCollection) + "_" + itoa(counter[domain.ResourceCollection])
			singID := string(domain.ResourceSingleton) + "_" + itoa(counter[domain.ResourceSingleton])
			counter[domain.ResourceCollection]++
			ret = append(ret, collID, singID)
			rs.IDs = []string{collID, singID}
		} else {
			id := string(rs.Type) + "_" + itoa(counter[rs.Type])
			ret = append(ret, id)
			rs.IDs = []string{id}
		}
		counter[rs.Type]++
	}

	if len(ret) == 1 {
		return "", kept
	}
	return strings.Join(ret, " "), kept
}

// ToTemplate delexicalizes a canonical utterance: every mention of a resource
// name or parameter name, in any of its surface variants, becomes that
// resource's placeholder id. Longer mentions are replaced first.
func (t *Templatizer) ToTemplate(op domain.Operation, canonical string, resources []domain.Resource) string {
	if len(resources) == 0 {
		return canonical
	}

	type repl struct {
		name string
		id   string
	}
	var replacements []repl

	if id, ok := t.operationIDPhrase(op.OperationID); ok {
		if strings.HasPrefix(id, "add") && !strings.Contains(id, "new") {
			id = "add a new" + id[3:]
		}
		replacements = append(replacements, repl{strings.TrimSpace(id), "OperationID"})
	}

	for _, r := range resources {
		for _, pair := range t.resourceReplacements(r) {
			replacements = append(replacements, repl{pair[0], pair[1]})
		}
	}

	sort.SliceStable(replacements, func(i, j int) bool {
		return len(replacements[i].name) > len(replacements[j].name)
	})

	expr := " " + strings.ToLower(canonical) + " "
	for _, r := range replacements {
		needle := " " + r.name + " "
		if strings.Contains(expr, needle) {
			expr = strings.ReplaceAll(expr, needle, " "+r.id+" ")
		}
	}

	return strings.Join(strings.Fields(expr), " ")
}

// resourceReplacements enumerates (surface form, placeholder id) pairs for
// one resource, longest surface form first.
func (t *Templatizer) resourceReplacements(r domain.Resource) [][2]string {
	if len(r.IDs) == 0 {
		return nil
	}

	pairs := [][2]string{{r.Name, r.IDs[0]}}
	if len(r.IDs) > 1 && r.Param != nil {
		pairs = append(pairs,
			[2]string{r.Param.Name, r.IDs[1]},
			[2]string{strings.ReplaceAll(r.Param.Name, t.lex.Singular(r.Name), ""), r.IDs[1]})
	}
	switch r.Type {
	case domain.ResourceCount:
		pairs = append(pairs, [2]string{"count", string(domain.ResourceCount)})
	case domain.ResourceSearch:
		pairs = append(pairs,
			[2]string{"search", string(domain.ResourceSearch)},
			[2]string{"query", string(domain.ResourceSearch)})
	}

	var ret [][2]string
	for _, pair := range pairs {
		name, id := pair[0], pair[1]
		if name == "" {
			continue
		}
		variants := make(map[string]bool)
		stripped := strings.NewReplacer("get", "", "create", "", "remove", "").Replace(name)
		for _, n := range []string{name, stripped} {
			variants[n] = true
			variants[strings.ToLower(n)] = true
			variants[strings.ToLower(strings.ReplaceAll(n, "_", " "))] = true
			variants[t.lex.Normalize(n)] = true
			variants[t.lex.NormalizeLemma(t.lex.Normalize(n))] = true
			variants[t.lex.NormalizeLemma(n)] = true
			for _, c := range joinCombinations(strings.Fields(t.lex.Normalize(n))) {
				variants[c] = true
			}
			for _, c := range joinCombinations(strings.Fields(t.lex.NormalizeLemma(n))) {
				variants[c] = true
			}
		}

		names := make([]string, 0, len(variants))
		for v := range variants {
			if v != "" {
				names = append(names, v)
			}
		}
		sort.Slice(names, func(i, j int) bool {
			if len(names[i]) != len(names[j]) {
				return len(names[i]) > len(names[j])
			}
			return names[i] < names[j]
		})
		for _, n := range names {
			ret = append(ret, [2]string{n, id})
		}
	}
	return ret
}

// FromTemplate lexicalizes the best matching template for the operation:
// placeholder ids are substituted with resource and parameter names, the
// remaining words are normalized, and with postEdit enabled the result runs
// through the grammar and parameter post edits.
func (t *Templatizer) FromTemplate(op domain.Operation, templates []string, resources []domain.Resource, postEdit bool) string {
	_, resources = t.ResourceSequence(op, resources)

	tpl := t.bestTemplate(templates, resources)
	if tpl == "" {
		return ""
	}

	if id, ok := t.operationIDPhrase(op.OperationID); ok {
		tpl = strings.ReplaceAll(tpl, "OperationID", id)
	}

	for _, rs := range resources {
		if len(rs.IDs) > 1 {
			tpl = strings.ReplaceAll(tpl, rs.IDs[0], rs.Name)
			if rs.Param != nil {
				tpl = strings.ReplaceAll(tpl, rs.IDs[1], rs.Param.Name)
			}
		} else if len(rs.IDs) == 1 {
			tpl = strings.ReplaceAll(tpl, rs.IDs[0], rs.Name)
		}
	}

	tpl = strings.ReplaceAll(tpl, " << ", " <<")
	tpl = strings.ReplaceAll(tpl, " >>", ">>")
	tokens := strings.Split(tpl, " ")
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "<<") || domain.IsPlaceholderToken(tok) {
			out = append(out, tok)
			continue
		}
		out = append(out, t.lex.Normalize(tok))
	}
	ret := strings.Join(out, " ")
	ret = strings.ReplaceAll(ret, "<<", "<< ")
	ret = strings.TrimSpace(strings.ReplaceAll(ret, ">>", " >>"))

	if postEdit {
		ret = removeExtraParams(ret)
		ret = removeDanglingWords(ret)
		ret = t.editGrammar(ret)
		ret = t.appendParameters(ret, resources)
	}

	return strings.ReplaceAll(ret, " get ", " ")
}

// bestTemplate picks the first well-formed template after ranking templates
// that mention the present resource kinds ahead of the rest. Well-formed
// means balanced placeholder markers and no ids outside the operation's
// resources. Falls back to the first template when none qualifies.
func (t *Templatizer) bestTemplate(templates []string, resources []domain.Resource) string {
	if len(templates) == 0 {
		return ""
	}

	ranked := make([]string, len(templates))
	copy(ranked, templates)

	present := make(map[domain.ResourceType]bool, len(resources))
	for _, r := range resources {
		present[r.Type] = true
	}
	for _, rt := range []domain.ResourceType{domain.ResourceUnknown, domain.ResourceSingleton, domain.ResourceCollection} {
		if !present[rt] {
			continue
		}
		marker := string(rt) + "_"
		sort.SliceStable(ranked, func(i, j int) bool {
			return strings.Contains(ranked[i], marker) && !strings.Contains(ranked[j], marker)
		})
	}

	validIDs := make(map[string]bool)
	for _, r := range resources {
		for _, id := range r.IDs {
			validIDs[id] = true
		}
	}

	for _, tpl := range ranked {
		if strings.Count(tpl, "<<") != strings.Count(tpl, ">>") {
			continue
		}
		if hasUnknownIDs(tpl, validIDs) {
			continue
		}
		return tpl
	}
	return ranked[0]
}

func hasUnknownIDs(tpl string, validIDs map[string]bool) bool {
	for _, token := range strings.Fields(tpl) {
		if domain.IsPlaceholderToken(token) && !validIDs[token] {
			return true
		}
	}
	return false
}

func removeExtraParams(ret string) string {
	for _, kind := range []string{string(domain.ResourceSingleton), string(domain.ResourceUnknown)} {
		for i := 1; i <= 3; i++ {
			id := kind + "_" + itoa(i)
			ret = strings.ReplaceAll(ret, id+" being << "+id+" >>", "")
		}
	}
	return ret
}

func removeDanglingWords(ret string) string {
	ret = strings.TrimSpace(ret)
	for _, word := range []string{" for", " with"} {
		ret = strings.TrimSuffix(ret, word)
	}
	return strings.TrimSpace(ret)
}

// editGrammar fixes article and plural agreement left behind by placeholder
// substitution, and folds bare "s" and "'s" tokens back onto the previous
// word.
func (t *Templatizer) editGrammar(text string) string {
	var ret []string
	var prev, sndPrev string
	isVowel := func(w string) bool {
		if w == "" {
			return false
		}
		switch strings.ToLower(w[:1]) {
		case "a", "e", "i", "o":
			return true
		}
		return false
	}

	for _, tok := range strings.Fields(text) {
		if prev == tok {
			continue
		}

		switch {
		case (sndPrev == "a" || sndPrev == "an") && t.lex.IsPlural(tok):
			ret = append(ret, t.lex.Singular(tok))
		case (prev == "a" || prev == "an") && t.lex.IsPlural(tok):
			ret = append(ret, t.lex.Singular(tok))
		case prev == "a" && isVowel(tok):
			ret = ret[:len(ret)-1]
			ret = append(ret, "an", t.lex.Singular(tok))
		case prev == "an" && !isVowel(tok):
			ret = ret[:len(ret)-1]
			ret = append(ret, "a", t.lex.Singular(tok))
		case tok == "s" && len(ret) > 0:
			ret = ret[:len(ret)-1]
			ret = append(ret, t.grammar.CorrectWord(prev+"s"))
		case tok == "'s" && len(ret) > 1:
			ret = ret[:len(ret)-2]
			ret = append(ret, t.grammar.CorrectWord(prev+"'s"))
		default:
			ret = append(ret, tok)
		}

		sndPrev = prev
		prev = tok
	}

	return strings.Join(ret, " ")
}

// appendParameters adds a trailing clause for every entity resource whose
// parameter never made it into the utterance.
func (t *Templatizer) appendParameters(text string, resources []domain.Resource) string {
	for _, r := range resources {
		switch r.Type {
		case domain.ResourceAttribute, domain.ResourceCount, domain.ResourceSearch,
			domain.ResourceFileExtension, domain.ResourceAuth, domain.ResourceSpecMarker,
			domain.ResourceFilter, domain.ResourceAll, domain.ResourceVersion,
			domain.ResourceBaseVerb, domain.ResourceBaseNoun:
			continue
		}
		if r.Param == nil || r.Param.Name == "" {
			continue
		}
		if strings.Contains(text, "<< "+r.Param.Name+" >>") {
			continue
		}
		text += " by " + t.lex.HumanReadableName(*r.Param, t.spell) + " being << " + r.Param.Name + " >>"
	}
	return text
}

func itoa(n int) string { return strconv.Itoa(n) }

// joinCombinations enumerates every way of joining the words with and
// without spaces, e.g. ["user", "id"] yields "userid" and "user id".
func joinCombinations(words []string) []string {
	if len(words) <= 1 {
		return words
	}
	rest := joinCombinations(words[1:])
	seen := make(map[string]bool, 2*len(rest))
	var ret []string
	for _, r := range rest {
		for _, joined := range []string{words[0] + r, words[0] + " " + r} {
			if !seen[joined] {
				seen[joined] = true
				ret = append(ret, joined)
			}
		}
	}
	return ret
}
