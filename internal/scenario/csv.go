package scenario

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// loadCSV reads a scenario table with a header row. Only the description
// column is required; absent suggestion columns leave their slot empty.
func loadCSV(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]Scenario, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	descCol, ok := index[DescriptionColumn]
	if !ok {
		return nil, ErrMissingDescriptionColumn
	}
	docCols := [MaxDocuments]int{-1, -1, -1}
	for slot, name := range DocumentColumns {
		if i, ok := index[name]; ok {
			docCols[slot] = i
		}
	}

	var rows []Scenario
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var sc Scenario
		sc.Description = field(rec, descCol)
		for slot, col := range docCols {
			sc.Documents[slot] = field(rec, col)
		}
		rows = append(rows, sc)
	}
	return rows, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return cleanCell(rec[i])
}
