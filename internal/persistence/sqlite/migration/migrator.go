package migration

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"
)

// Conn is a pinned connection the migrator can run a pass on. *sql.Conn satisfies it.
// Passing a pool (*sql.DB) works too, but the foreign key toggle then only reaches
// whichever pooled connection serves it.
type Conn interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Result describes one migration pass.
type Result struct {
	Table      string
	Missing    []string
	RowsCopied int
	Duration   time.Duration
}

// Migrated reports whether the pass transformed the table.
func (r Result) Migrated() bool {
	return len(r.Missing) > 0
}

// Migrator brings a table whose row shape lags behind its TableSpec up to date.
type Migrator struct {
	logger *slog.Logger
}

// NewMigrator creates a migrator. A nil logger falls back to slog.Default().
func NewMigrator(logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{logger: logger.With("component", "migrator")}
}

// Migrate runs one pass: inspect, and when columns are missing, rename the table to
// <table>_old, recreate it, copy every row through the backfill policies with its id
// preserved, and drop the old table. Rename through drop run in a single transaction, so a
// failure leaves the old schema intact. Foreign key enforcement is off for the duration of
// the pass so that rows are copied exactly as they were stored.
func (m *Migrator) Migrate(ctx context.Context, conn Conn, table TableSpec) (result Result, err error) {
	start := time.Now()
	result.Table = table.Name
	logger := m.logger.With("table", table.Name)

	current, err := NewSchemaInspector(conn).Columns(ctx, table.Name)
	if err != nil {
		return result, NewMigrationError(table.Name, StepInspect, err)
	}
	if len(current) == 0 {
		return result, NewMigrationError(table.Name, StepInspect, ErrTableNotFound)
	}

	missing := missingColumns(table.ColumnNames(), current)
	if len(missing) == 0 {
		logger.DebugContext(ctx, "table already current", "columns", current)
		return result, nil
	}
	result.Missing = missing

	plan, err := newCopyPlan(table, current)
	if err != nil {
		return result, NewMigrationError(table.Name, StepPlan, err)
	}

	logger.InfoContext(ctx, "migrating table", "missing_columns", missing, "current_columns", current)

	restoreFK, err := disableForeignKeys(ctx, conn)
	if err != nil {
		return result, NewMigrationError(table.Name, StepDisableFK, err)
	}
	defer func() {
		if restoreErr := restoreFK(); restoreErr != nil && err == nil {
			err = NewMigrationError(table.Name, StepRestoreFK, restoreErr)
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return result, NewMigrationError(table.Name, StepBegin, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	copied, err := m.rebuild(ctx, tx, plan)
	if err != nil {
		return result, err
	}

	if err = tx.Commit(); err != nil {
		return result, NewMigrationError(table.Name, StepCommit, err)
	}

	result.RowsCopied = copied
	result.Duration = time.Since(start)
	logger.InfoContext(ctx, "table migrated",
		"rows_copied", copied,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (m *Migrator) rebuild(ctx context.Context, tx *sql.Tx, plan *copyPlan) (int, error) {
	table := plan.table

	if _, err := tx.ExecContext(ctx, "ALTER TABLE "+table.Name+" RENAME TO "+table.OldName()); err != nil {
		return 0, NewMigrationError(table.Name, StepRename, err)
	}

	if _, err := tx.ExecContext(ctx, table.CreateSQL(false)); err != nil {
		return 0, NewMigrationError(table.Name, StepCreate, err)
	}

	rows, err := readRows(ctx, tx, plan.selectSQL(), len(table.Columns))
	if err != nil {
		return 0, NewMigrationError(table.Name, StepSelect, err)
	}

	stmt, err := tx.PrepareContext(ctx, plan.insertSQL())
	if err != nil {
		return 0, NewMigrationError(table.Name, StepInsert, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if err := plan.fill(row); err != nil {
			return 0, NewMigrationError(table.Name, StepBackfill, err)
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, NewMigrationError(table.Name, StepInsert, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE "+table.OldName()); err != nil {
		return 0, NewMigrationError(table.Name, StepDrop, err)
	}

	return len(rows), nil
}

// readRows loads the whole old table before any insert runs against the same transaction.
func readRows(ctx context.Context, q Querier, query string, width int) ([][]any, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, width)
		ptrs := make([]any, width)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// disableForeignKeys switches enforcement off outside any transaction (SQLite ignores the
// pragma inside one) and returns a func restoring the previous setting.
func disableForeignKeys(ctx context.Context, conn Querier) (func() error, error) {
	var enabled int
	if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return nil, err
	}
	if enabled == 0 {
		return func() error { return nil }, nil
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return nil, err
	}
	return func() error {
		_, err := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON")
		return err
	}, nil
}
