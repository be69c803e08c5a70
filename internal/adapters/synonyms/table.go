// Package synonyms provides synonym sources for METEOR's synonym stage.
package synonyms

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Table is an in-memory synonym table built from synonym groups.
// A word's synonyms are the other members of every group it belongs to.
type Table struct {
	index map[string]map[string]struct{}
}

type tableFile struct {
	Synonyms [][]string `yaml:"synonyms"`
}

// NewTable builds a table from groups of mutually synonymous words.
func NewTable(groups [][]string) *Table {
	t := &Table{index: make(map[string]map[string]struct{})}
	for _, group := range groups {
		for _, w := range group {
			set, ok := t.index[w]
			if !ok {
				set = make(map[string]struct{})
				t.index[w] = set
			}
			for _, other := range group {
				if other != w {
					set[other] = struct{}{}
				}
			}
		}
	}
	return t
}

// Parse reads a YAML document of the form `synonyms: [[big, large], ...]`.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing synonym table: %w", err)
	}
	return NewTable(f.Synonyms), nil
}

// Load reads a YAML synonym table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading synonym table: %w", err)
	}
	return Parse(data)
}

// Synonyms returns the synonyms of word in sorted order.
func (t *Table) Synonyms(word string) []string {
	set := t.index[word]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of words with at least one entry.
func (t *Table) Len() int {
	return len(t.index)
}
