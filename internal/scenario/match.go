package scenario

import "strings"

// Match returns the documents of every scenario whose description shares a
// token with description. Each whitespace-separated token of a scenario
// description is tested case-insensitively as a substring of the whole input,
// so short tokens such as "a" match almost anything. A nil table or a blank
// description yields an empty set.
func Match(description string, table *Table) SuggestionSet {
	set := SuggestionSet{}
	if table == nil || strings.TrimSpace(description) == "" {
		return set
	}

	lower := strings.ToLower(description)
	for i, row := range table.rows {
		if !containsAny(lower, table.tokens[i]) {
			continue
		}
		for _, doc := range row.Documents {
			if doc != "" {
				set.add(doc)
			}
		}
	}
	return set
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
