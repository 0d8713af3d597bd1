package migration

import (
	"context"
	"database/sql"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SchemaInspector reads the physical shape of tables. It never writes.
type SchemaInspector struct {
	q Querier
}

// NewSchemaInspector creates an inspector reading through q
func NewSchemaInspector(q Querier) *SchemaInspector {
	return &SchemaInspector{q: q}
}

// Columns returns the column names of table in declaration order.
// A table that does not exist yields an empty slice and no error.
func (i *SchemaInspector) Columns(ctx context.Context, table string) ([]string, error) {
	const query = `SELECT name FROM pragma_table_info(?) ORDER BY cid`

	rows, err := i.q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// TableExists reports whether a table with exactly this name exists
func (i *SchemaInspector) TableExists(ctx context.Context, table string) (bool, error) {
	return i.objectExists(ctx, "table", table)
}

// IndexExists reports whether an index with exactly this name exists
func (i *SchemaInspector) IndexExists(ctx context.Context, index string) (bool, error) {
	return i.objectExists(ctx, "index", index)
}

func (i *SchemaInspector) objectExists(ctx context.Context, kind, name string) (bool, error) {
	var count int
	err := i.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`, kind, name,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// missingColumns returns expected columns absent from current, preserving the order of expected.
func missingColumns(expected, current []string) []string {
	present := make(map[string]bool, len(current))
	for _, c := range current {
		present[c] = true
	}

	var missing []string
	for _, e := range expected {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	return missing
}
