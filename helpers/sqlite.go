package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spektr-org/cube/engine"
)

// ============================================================================
// SQLITE HELPER: Reads a table into []engine.RawRow
// ============================================================================
// Every column becomes a raw text field named after the column. NULL becomes
// a missing field, which engine.Load reports as a SchemaError when required.
// ============================================================================

// OpenSQLite opens a SQLite database file for reading.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

// LoadSQLite reads every row of table in scan order.
// Returns the rows and the column names.
func LoadSQLite(ctx context.Context, db *sql.DB, table string) ([]engine.RawRow, []string, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(table))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var out []engine.RawRow
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}

		row := make(engine.RawRow, len(columns))
		for i, col := range columns {
			if values[i] == nil {
				continue
			}
			row[col] = formatCell(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	return out, columns, nil
}

// formatCell renders a scanned SQLite value as text.
func formatCell(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []byte:
		return string(val)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
