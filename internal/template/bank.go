package template

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Bank is an in-memory collection of utterance templates keyed by resource
// sequence signature, persisted as tab-separated "signature<TAB>template"
// lines. It is safe for concurrent use.
type Bank struct {
	mu        sync.RWMutex
	bySig     map[string][]string
	seen      map[string]bool
	templates []string
}

func NewBank() *Bank {
	return &Bank{
		bySig: make(map[string][]string),
		seen:  make(map[string]bool),
	}
}

// LoadBank reads a bank file. A missing file yields an empty bank.
func LoadBank(path string) (*Bank, error) {
	b := NewBank()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening template bank: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sig, tpl, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		b.Add(sig, tpl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading template bank: %w", err)
	}
	return b, nil
}

// Add records a template under a signature. Duplicates are ignored.
func (b *Bank) Add(signature, template string) {
	if signature == "" || template == "" {
		return
	}
	key := signature + "\t" + template
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.bySig[signature] = append(b.bySig[signature], template)
	b.templates = append(b.templates, template)
}

// Templates returns all templates recorded under the signature, or every
// template in insertion order when the signature is unknown. The slice is a
// copy.
func (b *Bank) Templates(signature string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	src := b.bySig[signature]
	if len(src) == 0 {
		src = b.templates
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Len reports the total number of stored templates.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.templates)
}

// Save writes the bank to path, sorted by signature for stable diffs.
func (b *Bank) Save(path string) error {
	b.mu.RLock()
	sigs := make([]string, 0, len(b.bySig))
	for sig := range b.bySig {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	var sb strings.Builder
	for _, sig := range sigs {
		for _, tpl := range b.bySig[sig] {
			sb.WriteString(sig)
			sb.WriteByte('\t')
			sb.WriteString(tpl)
			sb.WriteByte('\n')
		}
	}
	b.mu.RUnlock()

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing template bank: %w", err)
	}
	return nil
}
