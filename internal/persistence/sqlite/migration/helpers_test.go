package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	legacyNoPosition = `CREATE TABLE action_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`
	legacyArchivedOnly = `CREATE TABLE action_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		archived_at INTEGER
	)`
	legacyPositionOnly = `CREATE TABLE action_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		position INTEGER
	)`
)

type itemRow struct {
	ID         int64
	AreaID     int64
	Title      string
	CreatedAt  int64
	Position   int64
	ArchivedAt sql.NullInt64
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "data.db")
	db, err := NewConnectionManager(TempFileTestSQLiteConfig(path)).GetConnection()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func pinConn(t *testing.T, db *sql.DB) *sql.Conn {
	t.Helper()
	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustExec(t *testing.T, q Querier, query string, args ...any) {
	t.Helper()
	_, err := q.ExecContext(context.Background(), query, args...)
	require.NoError(t, err, query)
}

// seedLegacy creates the parent table with area 1 and a legacy action_items table.
func seedLegacy(t *testing.T, q Querier, ddl string) {
	t.Helper()
	mustExec(t, q, LifeAreasTable.CreateSQL(true))
	mustExec(t, q, `INSERT INTO life_areas (id, name, color, "order", created_at, updated_at) VALUES (1, 'Health', '#00ff00', 0, 1, 1)`)
	mustExec(t, q, ddl)
}

func readItems(t *testing.T, q Querier) []itemRow {
	t.Helper()
	rows, err := q.QueryContext(context.Background(),
		`SELECT id, area_id, title, created_at, position, archived_at FROM action_items ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var items []itemRow
	for rows.Next() {
		var it itemRow
		require.NoError(t, rows.Scan(&it.ID, &it.AreaID, &it.Title, &it.CreatedAt, &it.Position, &it.ArchivedAt))
		items = append(items, it)
	}
	require.NoError(t, rows.Err())
	return items
}

func positionsByID(items []itemRow) map[int64]int64 {
	out := make(map[int64]int64, len(items))
	for _, it := range items {
		out[it.ID] = it.Position
	}
	return out
}

func tableSQL(t *testing.T, q Querier, name string) string {
	t.Helper()
	var ddl string
	err := q.QueryRowContext(context.Background(),
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&ddl)
	require.NoError(t, err)
	return ddl
}

// recordingConn records every statement and transaction start going through a pinned connection.
type recordingConn struct {
	*sql.Conn
	statements []string
	begins     int
}

func (r *recordingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.statements = append(r.statements, query)
	return r.Conn.ExecContext(ctx, query, args...)
}

func (r *recordingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	r.statements = append(r.statements, query)
	return r.Conn.QueryContext(ctx, query, args...)
}

func (r *recordingConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	r.statements = append(r.statements, query)
	return r.Conn.QueryRowContext(ctx, query, args...)
}

func (r *recordingConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	r.begins++
	return r.Conn.BeginTx(ctx, opts)
}
