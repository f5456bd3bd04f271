package scenario

import "testing"

func divorceTable() *Table {
	return NewTable([]Scenario{
		{Description: "divorce filing", Documents: [MaxDocuments]string{"ID proof", "Marriage certificate", ""}},
	})
}

func TestMatch_TokenFoundAsSubstring(t *testing.T) {
	got := Match("I need to file for divorce", divorceTable())
	if got.Len() != 2 {
		t.Fatalf("expected 2 suggestions, got %v", got.Sorted())
	}
	for _, want := range []string{"ID proof", "Marriage certificate"} {
		if !got.Contains(want) {
			t.Errorf("missing %q in %v", want, got.Sorted())
		}
	}
}

func TestMatch_NoSharedToken(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "eviction notice", Documents: [MaxDocuments]string{"Lease agreement"}},
	})
	if got := Match("unrelated text", table); got.Len() != 0 {
		t.Fatalf("expected no suggestions, got %v", got.Sorted())
	}
}

func TestMatch_EmptyAndWhitespaceInput(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "a", Documents: [MaxDocuments]string{"Anything"}},
	})
	for _, in := range []string{"", " ", "\t\n  "} {
		if got := Match(in, table); got.Len() != 0 {
			t.Errorf("input %q: expected empty set, got %v", in, got.Sorted())
		}
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "Custody Dispute", Documents: [MaxDocuments]string{"Birth certificate"}},
	})
	if got := Match("child CUSTODY hearing", table); !got.Contains("Birth certificate") {
		t.Fatalf("expected case-insensitive match, got %v", got.Sorted())
	}
}

func TestMatch_TokenInsideLongerWord(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "lease", Documents: [MaxDocuments]string{"Lease agreement"}},
	})
	// "lease" is contained in "release".
	if got := Match("prisoner release hearing", table); !got.Contains("Lease agreement") {
		t.Fatalf("expected substring match, got %v", got.Sorted())
	}
}

func TestMatch_DescriptionNotContainedInToken(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "bankruptcy", Documents: [MaxDocuments]string{"Debt statement"}},
	})
	// Input is a substring of the token, not the other way round.
	if got := Match("bank", table); got.Len() != 0 {
		t.Fatalf("expected no match, got %v", got.Sorted())
	}
}

func TestMatch_ShortTokenMatchesBroadly(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "a tenancy case", Documents: [MaxDocuments]string{"Rent receipts"}},
	})
	if got := Match("traffic ticket", table); !got.Contains("Rent receipts") {
		t.Fatalf("single-letter token should match any text containing it, got %v", got.Sorted())
	}
}

func TestMatch_Deduplicates(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "divorce", Documents: [MaxDocuments]string{"ID proof", "Marriage certificate"}},
		{Description: "custody", Documents: [MaxDocuments]string{"ID proof", "Birth certificate"}},
	})
	got := Match("divorce and custody", table)
	want := []string{"Birth certificate", "ID proof", "Marriage certificate"}
	sorted := got.Sorted()
	if len(sorted) != len(want) {
		t.Fatalf("expected %v, got %v", want, sorted)
	}
	for i := range want {
		if sorted[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], sorted[i])
		}
	}
}

func TestMatch_EmptyDescriptionRowNeverMatches(t *testing.T) {
	table := NewTable([]Scenario{
		{Description: "", Documents: [MaxDocuments]string{"Orphan document"}},
		{Description: "   ", Documents: [MaxDocuments]string{"Blank document"}},
	})
	if got := Match("anything at all", table); got.Len() != 0 {
		t.Fatalf("rows without description must not match, got %v", got.Sorted())
	}
}

func TestMatch_NilAndEmptyTable(t *testing.T) {
	if got := Match("divorce", nil); got.Len() != 0 {
		t.Errorf("nil table: expected empty set, got %v", got.Sorted())
	}
	if got := Match("divorce", NewTable(nil)); got.Len() != 0 {
		t.Errorf("empty table: expected empty set, got %v", got.Sorted())
	}
}

func TestMatch_ResultsAreSubsetOfTable(t *testing.T) {
	rows := []Scenario{
		{Description: "divorce filing", Documents: [MaxDocuments]string{"ID proof", "Marriage certificate"}},
		{Description: "property dispute", Documents: [MaxDocuments]string{"Title deed", "", "Tax receipts"}},
		{Description: "traffic", Documents: [MaxDocuments]string{"Driving licence"}},
	}
	table := NewTable(rows)

	known := map[string]bool{}
	for _, r := range rows {
		for _, d := range r.Suggestions() {
			known[d] = true
		}
	}

	for _, in := range []string{"divorce", "property and traffic", "a", "zzz", "Filing a dispute"} {
		for doc := range Match(in, table) {
			if !known[doc] {
				t.Errorf("input %q produced unknown document %q", in, doc)
			}
		}
	}
}

func TestMatch_Idempotent(t *testing.T) {
	table := divorceTable()
	first := Match("divorce papers", table).Sorted()
	second := Match("divorce papers", table).Sorted()
	if len(first) != len(second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("results differ: %v vs %v", first, second)
		}
	}
}

func TestNewTable_CopiesRows(t *testing.T) {
	rows := []Scenario{{Description: "divorce", Documents: [MaxDocuments]string{"ID proof"}}}
	table := NewTable(rows)
	rows[0].Documents[0] = "Changed"

	if got := Match("divorce", table); !got.Contains("ID proof") {
		t.Fatalf("table should not observe caller mutation, got %v", got.Sorted())
	}
	out := table.Rows()
	out[0].Description = "changed"
	if table.Rows()[0].Description != "divorce" {
		t.Fatal("Rows should return a copy")
	}
}
