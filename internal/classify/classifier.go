// Package classify decomposes a REST operation's URL path into an ordered
// sequence of semantically typed resources.
package classify

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

// Classifier assigns a resource type to every informative segment of an
// operation's URL. It is stateless apart from the injected lexical service
// and safe for concurrent use.
type Classifier struct {
	lex    *lexical.Service
	logger *slog.Logger
}

// New creates a Classifier.
func New(lex *lexical.Service, logger *slog.Logger) *Classifier {
	return &Classifier{
		lex:    lex,
		logger: logger.With("component", "classifier"),
	}
}

var segmentSplitRe = regexp.MustCompile(`[./:]`)

var fileExtensions = map[string]bool{
	"pdf": true, "json": true, "xml": true, "txt": true, "doc": true,
	"docx": true, "jpeg": true, "jpg": true, "gif": true, "png": true,
	"xls": true, "tsv": true, "csv": true, "fmw": true,
}

// Classify splits the operation URL into segments and types each one. The
// returned resources are ordered leaf-first (the segment closest to the end
// of the path comes first), followed by the base-path resources. A malformed
// URL yields an empty list; callers must treat that as "no usable
// resources".
func (c *Classifier) Classify(op *domain.Operation) []domain.Resource {
	if strings.Count(op.URL, "{") != strings.Count(op.URL, "}") {
		c.logger.Debug("Unbalanced braces in URL, no resources extracted.", slog.String("url", op.URL))
		return nil
	}

	url, basePath := c.stripNonInformative(op.URL, op.BasePath)
	segments := c.extractSegments(url)

	var ret []domain.Resource
	skip := false
	for i := len(segments) - 1; i >= 0; i-- {
		if skip {
			skip = false
			continue
		}
		current := segments[i]
		previous := ""
		if i > 0 {
			previous = segments[i-1]
		}

		res := domain.Resource{Name: current, Type: domain.ResourceUnknown}
		tag := ""
		if tagged := c.lex.Tag(res.Name); len(tagged) > 0 {
			tag = tagged[0].Tag
		}
		res.Type = c.resourceType(previous, current, tag, op.URL)
		res.IsParam = lexical.IsBraced(current)

		if res.IsParam {
			if p, ok := op.FindParam(lexical.TrimBraces(current)); ok {
				res.Param = &p
			}
		}

		switch {
		case res.Type == domain.ResourceSingleton:
			res.Name = previous
			skip = true
		case res.IsParam:
			res.Name = lexical.TrimBraces(current)
		}

		ret = append(ret, res)
	}

	for _, seg := range strings.Split(basePath, "/") {
		if seg == "" {
			continue
		}
		switch {
		case c.lex.IsNoun(seg):
			ret = append(ret, domain.Resource{Name: seg, Type: domain.ResourceBaseNoun})
		case c.lex.IsVerb(seg):
			ret = append(ret, domain.Resource{Name: seg, Type: domain.ResourceBaseVerb})
		}
	}

	return ret
}

// resourceType applies the classification rules in priority order. The
// Singleton heuristics are a stacked OR evaluated strictly in this order;
// their relative order is load-bearing and must not be rearranged.
func (c *Classifier) resourceType(previous, segment, tag, url string) domain.ResourceType {
	current := segment
	isParam := lexical.IsBraced(current)
	if isParam {
		current = lexical.TrimBraces(current)
	}
	current = c.lex.Normalize(current)

	if !isParam {
		switch {
		case strings.HasPrefix(current, "by"):
			return domain.ResourceFilter
		case strings.HasPrefix(current, "search"), strings.HasSuffix(current, "search"),
			strings.HasPrefix(current, "query"), strings.HasSuffix(current, "query"):
			return domain.ResourceSearch
		case current == "count":
			return domain.ResourceCount
		case current == "all":
			return domain.ResourceAll
		case c.lex.IsAuthTerm(current):
			return domain.ResourceAuth
		case current == "swagger" || current == "yaml":
			return domain.ResourceSpecMarker
		case fileExtensions[current]:
			return domain.ResourceFileExtension
		}
	}

	if isParam && current == "format" {
		return domain.ResourceFileExtension
	}

	if isParam && previous != "" {
		if strings.Contains(previous, current) {
			return domain.ResourceSingleton
		}
		if (strings.HasPrefix(tag, "NNS") || c.lex.IsPlural(previous)) && c.lex.IsIdentifier(current) {
			return domain.ResourceSingleton
		}
		if (strings.HasSuffix(current, "name") || strings.HasSuffix(current, "type")) &&
			!strings.Contains(url, segment+".") {
			return domain.ResourceSingleton
		}
		if strings.Contains(current, c.lex.Singular(previous)) {
			return domain.ResourceSingleton
		}
		if c.lex.Distance(current, previous) < 0.4 {
			return domain.ResourceSingleton
		}
	}

	if strings.HasPrefix(tag, "NNS") || c.lex.IsPlural(current) {
		return domain.ResourceCollection
	}

	if strings.HasPrefix(tag, "JJ") || c.lex.IsAdjective(current) ||
		strings.HasSuffix(current, "ed") ||
		(strings.HasPrefix(tag, "VB") && strings.HasPrefix(current, "is")) {
		return domain.ResourceAttribute
	}

	if (strings.HasPrefix(tag, "VB") || c.lex.IsVerb(current)) && !isParam {
		return domain.ResourceAction
	}

	if words := strings.Fields(current); len(words) > 1 && c.lex.IsVerb(words[0]) && !isParam {
		return domain.ResourceMethodName
	}

	if isParam {
		return domain.ResourceUnknownParam
	}

	if c.lex.IsVersionTerm(current) {
		return domain.ResourceVersion
	}

	return domain.ResourceUnknown
}

// stripNonInformative cuts the query string, trims the base path at its
// first non-informative segment (a parameter, a plural, a search or count
// marker, or anything following a version marker), and removes the remaining
// base-path prefix from the URL. Braces are isolated so each path parameter
// becomes its own segment.
func (c *Classifier) stripNonInformative(url, basePath string) (string, string) {
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}

	if basePath != "" {
		offset := 0
		prev := ""
		for _, p := range strings.Split(basePath, "/") {
			if p == "" {
				offset++
				continue
			}
			if (strings.Contains(p, "{") && strings.Contains(p, "}")) ||
				!c.lex.IsSingular(p) ||
				p == "search" || p == "query" || p == "count" ||
				c.lex.IsVersionTerm(prev) {
				basePath = basePath[:offset]
				break
			}
			prev = p
			offset += len(p) + 1
		}
	}

	if basePath != "" && basePath != "/" {
		url = strings.Replace(url, basePath, "/", 1)
	}

	url = strings.ReplaceAll(url, "http://", "/")
	url = strings.ReplaceAll(url, "https://", "/")
	url = strings.ReplaceAll(url, "{", "/{")
	url = strings.ReplaceAll(url, "}", "}/")
	url = strings.ReplaceAll(url, "//", "/")

	return url, basePath
}

// extractSegments splits the cleaned URL on '/', '.' and ':' and drops the
// segments that carry no meaning: empties, redundant name/parameter pairs
// (e.g. /countries/country_code/{country_code}) and leading auth/version
// markers.
func (c *Classifier) extractSegments(url string) []string {
	parts := segmentSplitRe.Split(url, -1)
	parts = c.filterRedundant(parts)

	start := 0
	for i, p := range parts {
		if c.lex.IsNecessarySegment(p) {
			start = i
			break
		}
	}
	parts = parts[start:]

	var ret []string
	for _, p := range parts {
		if i := strings.Index(p, "}{"); i >= 0 {
			ret = append(ret, p[:i+1], p[i+1:])
			continue
		}
		ret = append(ret, p)
	}

	filtered := ret[:0]
	for _, p := range ret {
		if c.lex.Normalize(p) != "" {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (c *Classifier) filterRedundant(parts []string) []string {
	var ret []string
	previous := ""
	for _, word := range parts {
		if word == "" {
			previous = word
			continue
		}
		if previous != "" && lexical.IsBraced(word) &&
			c.lex.Normalize(lexical.TrimBraces(word)) == c.lex.Normalize(previous) &&
			c.lex.IsSingular(lexical.TrimBraces(word)) {
			// collapse /country_code/{country_code} into the parameter alone
			if len(ret) > 0 {
				ret = ret[:len(ret)-1]
			}
			ret = append(ret, word)
			previous = word
			continue
		}
		previous = word
		ret = append(ret, word)
	}
	return ret
}
