// Package sampler produces plausible example values for operation
// parameters, combining corpus frequency tables with synthesized data.
package sampler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

// Sampler implements value sampling for parameters. Sources are tried in
// order: the parameter's own example, well-known name conventions, the
// corpus frequency table by pattern, then by normalized name and type, and
// finally synthesized values for recognizable entity names.
type Sampler struct {
	lex    *lexical.Service
	table  *lexical.ParamTable
	faker  *gofakeit.Faker
	logger *slog.Logger
}

// New creates a Sampler. The table may be empty but not nil.
func New(lex *lexical.Service, table *lexical.ParamTable, logger *slog.Logger) *Sampler {
	return &Sampler{
		lex:    lex,
		table:  table,
		faker:  gofakeit.New(0),
		logger: logger.With("component", "param_sampler"),
	}
}

// Sample returns up to n example values for the parameter.
func (s *Sampler) Sample(p domain.Param, n int) []string {
	if n <= 0 {
		return nil
	}

	var values []string
	if p.Example != "" && p.Example != "None" {
		values = append(values, p.Example)
	}

	if len(values) < n {
		values = appendUnique(values, s.commonValues(p, n))
	}
	if len(values) < n && p.Pattern != "" {
		values = appendUnique(values, s.table.ExamplesByPattern(p.Pattern, n))
	}
	if len(values) < n {
		values = appendUnique(values, s.table.Examples(s.lex.Normalize(p.Name), p.Type, n))
	}
	if len(values) < n {
		values = appendUnique(values, s.fakeValues(p, n-len(values)))
	}

	if len(values) > n {
		values = values[:n]
	}
	return values
}

// commonValues covers parameter names and types with conventional values.
func (s *Sampler) commonValues(p domain.Param, n int) []string {
	var values []string

	switch p.Name {
	case "email":
		for i := 1; i <= n; i++ {
			values = append(values, fmt.Sprintf("user%d@company.com", i))
		}
	case "username":
		for i := 1; i <= n; i++ {
			values = append(values, fmt.Sprintf("my_username%d", i))
		}
	}

	if s.lex.IsIdentifier(p.Name) {
		for i := 1; i <= n; i++ {
			values = append(values, strconv.Itoa(i))
		}
	}

	if strings.Contains(p.Name, "date") {
		start := time.Now()
		end := start.AddDate(1, 0, 0)
		for i := 0; i < n; i++ {
			values = append(values, s.faker.DateRange(start, end).Format("2006-01-02"))
		}
	}

	switch p.Type {
	case "integer", "number":
		start := s.faker.Number(0, 2000)
		values = values[:0]
		for i := start; i < start+n; i++ {
			values = append(values, strconv.Itoa(i))
		}
	case "boolean":
		values = []string{"false", "true"}
	}

	return values
}

// fakeValues synthesizes values for entity-like parameter names. It stands
// in for knowledge-base lookups when the frequency table has no match.
func (s *Sampler) fakeValues(p domain.Param, n int) []string {
	name := s.lex.NormalizeLemma(p.Name)

	gen := func() string {
		switch {
		case strings.Contains(name, "email"):
			return s.faker.Email()
		case strings.Contains(name, "city"):
			return s.faker.City()
		case strings.Contains(name, "country"):
			return s.faker.Country()
		case strings.Contains(name, "phone"):
			return s.faker.Phone()
		case strings.Contains(name, "url") || strings.Contains(name, "website"):
			return s.faker.URL()
		case strings.Contains(name, "color"):
			return s.faker.Color()
		case strings.Contains(name, "currency"):
			return s.faker.CurrencyShort()
		case strings.HasSuffix(name, "name"):
			return s.faker.Name()
		case strings.Contains(name, "address"):
			return s.faker.Address().Address
		case strings.Contains(name, "uuid") || strings.Contains(name, "guid"):
			return s.faker.UUID()
		case s.table.IsNamedEntity(name):
			return s.faker.Word()
		}
		return ""
	}

	var values []string
	for i := 0; i < n; i++ {
		v := gen()
		if v == "" {
			break
		}
		values = append(values, v)
	}
	return values
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if v != "" && !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}
