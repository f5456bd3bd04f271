package scenario

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	_ "modernc.org/sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// loadSQLite reads scenarios from an existing SQLite database. The table uses
// the same column names as the CSV source; NULL cells are empty slots.
func loadSQLite(ctx context.Context, path, table string) ([]Scenario, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	// sql.Open would silently create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s ORDER BY rowid`,
		DescriptionColumn, DocumentColumns[0], DocumentColumns[1], DocumentColumns[2], table)
	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rs.Close()

	var rows []Scenario
	for rs.Next() {
		var desc, d1, d2, d3 sql.NullString
		if err := rs.Scan(&desc, &d1, &d2, &d3); err != nil {
			return nil, err
		}
		rows = append(rows, Scenario{
			Description: cleanCell(desc.String),
			Documents:   [MaxDocuments]string{cleanCell(d1.String), cleanCell(d2.String), cleanCell(d3.String)},
		})
	}
	return rows, rs.Err()
}
