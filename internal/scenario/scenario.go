// Package scenario holds the court scenario table and the keyword matcher
// that turns a free-text case description into suggested documents.
package scenario

import (
	"sort"
	"strings"
)

// MaxDocuments is the number of document suggestion slots per scenario.
const MaxDocuments = 3

// Scenario pairs a case description with up to three suggested documents.
// An empty slot means "no suggestion".
type Scenario struct {
	Description string               `json:"description" yaml:"description"`
	Documents   [MaxDocuments]string `json:"documents" yaml:"-"`
}

// Suggestions returns the non-empty document slots in order.
func (s Scenario) Suggestions() []string {
	docs := make([]string, 0, MaxDocuments)
	for _, d := range s.Documents {
		if d != "" {
			docs = append(docs, d)
		}
	}
	return docs
}

// Table is an immutable, ordered set of scenarios. Build one with NewTable
// and pass it to Match; it is safe for concurrent reads.
type Table struct {
	rows   []Scenario
	tokens [][]string // lowercase description tokens per row
}

// NewTable copies rows into a new table and pre-lowers description tokens.
func NewTable(rows []Scenario) *Table {
	t := &Table{
		rows:   make([]Scenario, len(rows)),
		tokens: make([][]string, len(rows)),
	}
	copy(t.rows, rows)
	for i, r := range t.rows {
		t.tokens[i] = strings.Fields(strings.ToLower(r.Description))
	}
	return t
}

// Len returns the number of scenarios.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the scenarios in load order.
func (t *Table) Rows() []Scenario {
	if t == nil {
		return nil
	}
	out := make([]Scenario, len(t.rows))
	copy(out, t.rows)
	return out
}

// SuggestionSet is a deduplicated, unordered set of document names.
type SuggestionSet map[string]struct{}

func (s SuggestionSet) add(doc string) { s[doc] = struct{}{} }

// Len returns the number of distinct documents.
func (s SuggestionSet) Len() int { return len(s) }

// Contains reports whether doc is in the set.
func (s SuggestionSet) Contains(doc string) bool {
	_, ok := s[doc]
	return ok
}

// Sorted returns the documents in lexical order for stable display.
func (s SuggestionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
