package lexical

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ParamTable is the read-only parameter example frequency table, loaded once
// at startup from a tab-separated file with the columns
// name/required/is_auth_param/location/type/pattern/example/desc/count.
// Authentication parameters are skipped at load time.
type ParamTable struct {
	svc      *Service
	byName   map[nameType]map[string]int
	byRegex  map[string]map[string]int
	entities map[string]bool
}

type nameType struct {
	name string
	typ  string
}

// NewParamTable returns an empty table bound to the lexical service. Useful
// when no data files are configured; all lookups simply miss.
func NewParamTable(svc *Service) *ParamTable {
	return &ParamTable{
		svc:      svc,
		byName:   make(map[nameType]map[string]int),
		byRegex:  make(map[string]map[string]int),
		entities: make(map[string]bool),
	}
}

// LoadParamTable reads the frequency table and the entity-name lexicon from
// disk. Either path may be empty, in which case that part stays empty.
func LoadParamTable(svc *Service, paramsTSV, entityList string) (*ParamTable, error) {
	t := NewParamTable(svc)
	if paramsTSV != "" {
		f, err := os.Open(paramsTSV)
		if err != nil {
			return nil, fmt.Errorf("open parameter table: %w", err)
		}
		defer f.Close()
		if err := t.readParams(f); err != nil {
			return nil, fmt.Errorf("read parameter table %s: %w", paramsTSV, err)
		}
	}
	if entityList != "" {
		f, err := os.Open(entityList)
		if err != nil {
			return nil, fmt.Errorf("open entity lexicon: %w", err)
		}
		defer f.Close()
		t.readEntities(f)
	}
	return t, nil
}

func (t *ParamTable) readParams(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"name", "example", "count"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("missing column %q", required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if strings.EqualFold(field(rec, "is_auth_param"), "true") {
			continue
		}
		example := field(rec, "example")
		if example == "" || example == "None" {
			continue
		}
		count, _ := strconv.Atoi(field(rec, "count"))
		if count <= 0 {
			count = 1
		}

		key := nameType{name: t.svc.Normalize(field(rec, "name")), typ: field(rec, "type")}
		if t.byName[key] == nil {
			t.byName[key] = make(map[string]int)
		}
		t.byName[key][example] += count

		if pattern := field(rec, "pattern"); pattern != "" && pattern != "None" {
			if t.byRegex[pattern] == nil {
				t.byRegex[pattern] = make(map[string]int)
			}
			t.byRegex[pattern][example] += count
		}
	}
	return nil
}

func (t *ParamTable) readEntities(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		t.entities[t.svc.NormalizeLemma(line)] = true
	}
}

// Examples returns up to n example values recorded for the given normalized
// parameter name and declared type, most frequent first.
func (t *ParamTable) Examples(name, typ string, n int) []string {
	return topN(t.byName[nameType{name: t.svc.Normalize(name), typ: typ}], n)
}

// ExamplesByPattern returns up to n example values recorded for a regex
// pattern, most frequent first.
func (t *ParamTable) ExamplesByPattern(pattern string, n int) []string {
	return topN(t.byRegex[pattern], n)
}

// IsNamedEntity reports whether any word of the parameter name appears in
// the curated entity lexicon.
func (t *ParamTable) IsNamedEntity(name string) bool {
	for w := range fieldSet(t.svc.NormalizeLemma(name)) {
		if t.entities[w] {
			return true
		}
	}
	return false
}

func topN(counts map[string]int, n int) []string {
	if len(counts) == 0 || n <= 0 {
		return nil
	}
	type pair struct {
		val   string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].val < pairs[j].val
	})
	if n > len(pairs) {
		n = len(pairs)
	}
	out := make([]string, 0, n)
	for _, p := range pairs[:n] {
		out = append(out, p.val)
	}
	return out
}
