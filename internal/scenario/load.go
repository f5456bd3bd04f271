package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat        = errors.New("unsupported scenario file format")
	ErrMissingDescriptionColumn = errors.New("scenario source has no description column")
)

// Column names shared by the CSV and SQLite sources.
const (
	DescriptionColumn  = "description"
	DefaultSQLiteTable = "court_scenarios"
)

// DocumentColumns are the suggestion slot columns, in slot order.
var DocumentColumns = [MaxDocuments]string{
	"document_suggestions__001",
	"document_suggestions__002",
	"document_suggestions__003",
}

// LoadOptions tunes Load. The zero value is usable.
type LoadOptions struct {
	SQLiteTable string // table name for SQLite sources (default: court_scenarios)
	Logger      *slog.Logger
}

// Load reads a scenario table from path, choosing the reader by extension:
// .csv, .yaml/.yml or .db/.sqlite/.sqlite3.
func Load(ctx context.Context, path string, opts LoadOptions) (*Table, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var (
		rows []Scenario
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = loadCSV(path)
	case ".yaml", ".yml":
		rows, err = loadYAML(path)
	case ".db", ".sqlite", ".sqlite3":
		table := opts.SQLiteTable
		if table == "" {
			table = DefaultSQLiteTable
		}
		rows, err = loadSQLite(ctx, path, table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load scenarios %s: %w", path, err)
	}

	skipped := 0
	for _, r := range rows {
		if strings.TrimSpace(r.Description) == "" {
			skipped++
		}
	}
	if skipped > 0 {
		opts.Logger.Warn("scenarios without description never match", "path", path, "count", skipped)
	}
	opts.Logger.Info("scenarios loaded", "path", path, "rows", len(rows))

	return NewTable(rows), nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(s)
}
