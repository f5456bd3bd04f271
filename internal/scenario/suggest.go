package scenario

import (
	"strings"

	"casedocs/internal/metrics"
)

// Informational messages shown instead of a suggestion list.
const (
	MsgEmptyDescription = "Please enter a case description to get suggestions."
	MsgNoSuggestions    = "No document suggestions found. Try rephrasing your case description."
)

// Suggestion is the presentable outcome of one suggestion request.
type Suggestion struct {
	Documents []string `json:"documents"`
	Outcome   string   `json:"outcome"`           // matched | no_match | empty
	Message   string   `json:"message,omitempty"` // set when Documents is empty
}

// Suggest runs Match and classifies the result for display. Neither an empty
// description nor a miss is an error.
func Suggest(description string, table *Table) Suggestion {
	if strings.TrimSpace(description) == "" {
		metrics.SuggestionRequests.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return Suggestion{Documents: []string{}, Outcome: metrics.OutcomeEmpty, Message: MsgEmptyDescription}
	}

	set := Match(description, table)
	if set.Len() == 0 {
		metrics.SuggestionRequests.WithLabelValues(metrics.OutcomeNoMatch).Inc()
		return Suggestion{Documents: []string{}, Outcome: metrics.OutcomeNoMatch, Message: MsgNoSuggestions}
	}

	metrics.SuggestionRequests.WithLabelValues(metrics.OutcomeMatched).Inc()
	metrics.SuggestedDocuments.Observe(float64(set.Len()))
	return Suggestion{Documents: set.Sorted(), Outcome: metrics.OutcomeMatched}
}
