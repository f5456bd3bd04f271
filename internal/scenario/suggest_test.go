package scenario

import (
	"testing"

	"casedocs/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSuggest_Outcomes(t *testing.T) {
	table := divorceTable()

	empty := Suggest("  ", table)
	if empty.Outcome != metrics.OutcomeEmpty || empty.Message != MsgEmptyDescription || len(empty.Documents) != 0 {
		t.Errorf("unexpected empty result %+v", empty)
	}

	miss := Suggest("parking ticket", table)
	if miss.Outcome != metrics.OutcomeNoMatch || miss.Message != MsgNoSuggestions {
		t.Errorf("unexpected miss result %+v", miss)
	}

	hit := Suggest("divorce", table)
	if hit.Outcome != metrics.OutcomeMatched || hit.Message != "" {
		t.Errorf("unexpected hit result %+v", hit)
	}
	if len(hit.Documents) != 2 || hit.Documents[0] != "ID proof" || hit.Documents[1] != "Marriage certificate" {
		t.Errorf("expected sorted documents, got %v", hit.Documents)
	}
}

func TestSuggest_CountsOutcome(t *testing.T) {
	c := metrics.SuggestionRequests.WithLabelValues(metrics.OutcomeNoMatch)
	before := testutil.ToFloat64(c)
	Suggest("nothing here", NewTable(nil))
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Fatalf("expected no_match counter %v, got %v", before+1, got)
	}
}
