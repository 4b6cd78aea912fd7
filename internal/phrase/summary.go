package phrase

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

var commonVerbs = map[string]bool{
	"get": true, "create": true, "delete": true, "remove": true, "eliminate": true,
	"update": true, "replace": true, "return": true, "check": true, "set": true, "list": true,
}

// Extractor derives an intent utterance from an operation's summary or
// description and rewrites path parameter mentions into placeholder clauses.
type Extractor struct {
	lex    *lexical.Service
	norm   *Normalizer
	logger *slog.Logger
}

func NewExtractor(lex *lexical.Service, norm *Normalizer, logger *slog.Logger) *Extractor {
	return &Extractor{lex: lex, norm: norm, logger: logger.With("component", "summary_extractor")}
}

var (
	hyperlinkRe     = regexp.MustCompile(`\[[^\[\]()]*\]\s*\([^\[\]()]*\)`)
	linkLabelRe     = regexp.MustCompile(`\[[^\[\]()]*\]`)
	parentheticalRe = regexp.MustCompile(`\(.*\)`)
	sentenceEndRe   = regexp.MustCompile(`([.!?])\s+`)
	trailingByRe    = regexp.MustCompile(`(?i)(by|based|based on|via|with) (id|specific id|given id|the given id|a specific id)$`)
)

// replaceHyperlinks rewrites markdown links with their label text.
func replaceHyperlinks(text string) string {
	for _, link := range hyperlinkRe.FindAllString(text, -1) {
		label := linkLabelRe.FindString(link)
		text = strings.ReplaceAll(text, link, label[1:len(label)-1])
	}
	return text
}

// stripTags flattens HTML markup down to its text content. Malformed markup
// is tolerated; the input is returned unchanged only when parsing fails
// entirely.
func stripTags(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

func toSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	marks := sentenceEndRe.FindAllStringSubmatch(text, -1)
	sentences := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i < len(marks) {
			part += marks[i][1]
		}
		sentences = append(sentences, part)
	}
	return sentences
}

// ExtractIntent finds the first sentence of the text that reads as a verb
// phrase and returns it normalized, or "" when no sentence qualifies.
// Sentences over 120 characters, sentences with multiple verbs when longer
// than 80 characters, and sentences carrying links or markup are rejected.
func (x *Extractor) ExtractIntent(text string) string {
	if text == "" || text == "None" {
		return ""
	}

	if strings.Contains(text, "](") || strings.Contains(text, "] (") {
		text = replaceHyperlinks(text)
	}
	text = stripTags(text)

	if idx := strings.Index(text, ":"); idx >= 0 {
		text = text[:idx]
	}
	if strings.Contains(text, "(") {
		text = parentheticalRe.ReplaceAllString(text, "")
	}

	for _, sent := range toSentences(text) {
		if len(sent) > 120 {
			continue
		}
		sent = strings.ToLower(sent)

		tagged := x.lex.Tag(sent)
		if len(tagged) == 0 {
			continue
		}

		verbs := 0
		for _, tw := range tagged {
			if tw.Tag == "VB" || tw.Tag == "VBZ" {
				verbs++
			}
		}
		if verbs > 1 && len(sent) > 80 {
			continue
		}

		adverbLead := len(tagged) > 1 && tagged[0].Tag == "RB" && tagged[1].Tag == "VB"

		expr := ""
		if tagged[0].Tag == "VB" || commonVerbs[tagged[0].Token] || adverbLead {
			expr = sent
		} else if tagged[0].Tag == "VBZ" || commonVerbs[strings.TrimSuffix(tagged[0].Token, "s")] && strings.HasSuffix(tagged[0].Token, "s") {
			verb := tagged[0].Token
			lemma := verb
			if verb != "was" && verb != "is" && verb != "has" {
				lemma = x.lex.LemmatizeVerb(verb)
			}
			expr = strings.Replace(sent, verb, lemma, 1)
		}

		if expr == "" {
			continue
		}
		if strings.Contains(expr, "http") {
			continue
		}
		if strings.Contains(expr, "see") &&
			(strings.Contains(expr, ":") || strings.Contains(expr, "please") || strings.Contains(expr, "href")) {
			continue
		}
		if strings.Contains(expr, "<") && strings.Contains(expr, ">") {
			continue
		}

		expr = x.norm.FinalizeUtterance(expr, true)
		if idx := strings.Index(expr, " by "); idx >= 0 {
			expr = expr[:idx]
		}
		return expr
	}

	return ""
}

// ToIntent extracts the operation's intent utterance and substitutes path
// parameter mentions with placeholder clauses. It returns the path
// parameters that could not be bound into the utterance, and "" when no
// usable intent was found.
func (x *Extractor) ToIntent(op domain.Operation, pathParams []domain.Param, resources []domain.Resource) ([]domain.Param, string) {
	intent := x.ExtractIntent(op.Summary)
	if intent == "" {
		intent = x.ExtractIntent(op.Description)
	}
	if intent == "" || len(intent) < 8 {
		return pathParams, ""
	}

	intent = strings.TrimSuffix(intent, ".")

	for _, verb := range []string{"return", "retrieve", "read", "fetch"} {
		if strings.HasPrefix(intent, verb) {
			intent = "get" + intent[len(verb):]
		}
	}
	if strings.HasPrefix(intent, "add") {
		intent = "create" + intent[len("add"):]
	}
	if strings.HasPrefix(intent, "remove") {
		intent = "delete" + intent[len("remove"):]
	}

	intent = x.lex.Normalize(x.lex.Normalize(intent))

	return x.ReplacePathParams(intent, pathParams, resources)
}

// ReplacePathParams rewrites each path parameter's resource mention in the
// intent into a "by name being << param >>" clause. Candidate mention
// phrases are enumerated from resource and parameter name variants joined by
// a fixed connector set, tried longest first. Parameters whose mention is
// never found are returned unbound.
func (x *Extractor) ReplacePathParams(intent string, pathParams []domain.Param, resources []domain.Resource) ([]domain.Param, string) {
	findResource := func(name string) *domain.Resource {
		for i := range resources {
			if resources[i].IsParam && resources[i].Param != nil && resources[i].Param.Name == name {
				return &resources[i]
			}
		}
		return nil
	}

	var unbound []domain.Param
	for _, p := range pathParams {
		res := findResource(p.Name)
		if res == nil {
			unbound = append(unbound, p)
			continue
		}

		rname := res.Name
		rnameNorm := x.lex.Normalize(rname)
		pnameNorm := x.lex.Normalize(p.Name)
		rnameLemma := x.lex.NormalizeLemma(rname)
		pnameLemma := x.lex.NormalizeLemma(p.Name)

		matched1 := x.matchedSpan(intent, rname, p.Name, rname)
		matched2 := x.matchedSpan(intent, rnameLemma, pnameLemma, rnameLemma)

		if rname == "" {
			rname = p.Name
		}
		if rnameNorm == "" {
			rnameNorm = pnameNorm
		}

		r1 := dedupe(" ", matched1, matched2, rname, collapse(rnameNorm), collapse(rnameLemma))
		r2 := dedupe(" ", p.Name, pnameNorm, pnameLemma, collapse(pnameNorm), collapse(pnameLemma),
			"id", "name", "type", "resource", "item")
		connectors := dedupe(" ", "by", "via", "with", "based on", "with specific", "matching",
			"with a given", "with given", "given", "given a")

		phrases := x.combinations(r1, connectors, r2)

		found := false
		intent += " "
		for _, phrase := range phrases {
			if !strings.Contains(intent, " "+phrase+" ") && !strings.HasSuffix(intent, phrase) {
				continue
			}
			if strings.Contains(intent, phrase+"'s") || strings.Contains(intent, phrase+" of ") {
				intent = intent + " with " + x.norm.EntityPhrase(p)
			} else {
				replacement := phrase + " by " + x.norm.EntityPhrase(p)
				intent = replaceLast(intent, phrase+" ", replacement+" ")
			}
			found = true
			break
		}

		if !found {
			unbound = append(unbound, p)
		}
	}

	intent = trailingByRe.ReplaceAllString(intent, "")
	return unbound, intent
}

// matchedSpan captures the text between "rname by" and "pname" in the
// intent, so phrases like "orders by their customer id" enter the candidate
// set.
func (x *Extractor) matchedSpan(intent, rname, pname, prefix string) string {
	re, err := regexp.Compile(rname + " by(.+)" + pname)
	if err != nil {
		return " "
	}
	m := re.FindString(intent)
	if m == "" {
		return " "
	}
	return strings.ReplaceAll(m, prefix+" by ", "")
}

// combinations enumerates every R1+connector+R2 phrase together with its
// normalized form, longest first.
func (x *Extractor) combinations(r1, connectors, r2 []string) []string {
	seen := make(map[string]bool)
	var phrases []string
	add := func(phr string) {
		if len(phr) > 2 && !seen[phr] {
			seen[phr] = true
			phrases = append(phrases, phr)
		}
	}
	for _, a := range r1 {
		for _, c := range connectors {
			for _, b := range r2 {
				phr := strings.TrimSpace(a + " " + c + " " + b)
				if phr == "" || strings.TrimSpace(c) == phr {
					continue
				}
				add(phr)
				add(x.lex.Normalize(phr))
			}
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(values ...string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func replaceLast(s, old, new string) string {
	idx := strings.LastIndex(s, old)
	if idx < 0 {
		return s
	}
	return s[:idx] + new + s[idx+len(old):]
}
