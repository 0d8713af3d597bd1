package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Report summarises one initializer run.
type Report struct {
	Migrations []Result
	Duration   time.Duration
}

// Migrated reports whether any table was transformed.
func (r *Report) Migrated() bool {
	for _, m := range r.Migrations {
		if m.Migrated() {
			return true
		}
	}
	return false
}

// VerifyReport lists everything that keeps a database from matching the schema.
type VerifyReport struct {
	MissingTables  []string
	MissingColumns map[string][]string
	MissingIndexes []string
	LeftoverTables []string
}

// OK reports whether the database matches the schema.
func (r *VerifyReport) OK() bool {
	return len(r.MissingTables) == 0 && len(r.MissingColumns) == 0 &&
		len(r.MissingIndexes) == 0 && len(r.LeftoverTables) == 0
}

// Initializer owns schema creation: baseline tables, migrations of evolving tables, indexes.
type Initializer struct {
	db       *sql.DB
	schema   Schema
	migrator *Migrator
	logger   *slog.Logger
}

// NewInitializer creates an initializer for schema on db
func NewInitializer(db *sql.DB, schema Schema, logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Initializer{
		db:       db,
		schema:   schema,
		migrator: NewMigrator(logger),
		logger:   logger.With("component", "schema_initializer"),
	}
}

// Run brings the database to the current schema. Every error is fatal for startup.
//
// Order matters: leftover _old tables are checked before CREATE TABLE IF NOT EXISTS could
// mask them with an empty table, and indexes are created last because they may reference
// columns that only exist after migration.
func (i *Initializer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	conn, err := i.db.Conn(ctx)
	if err != nil {
		return nil, NewDatabaseError("", "acquire connection", fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}
	defer conn.Close()

	if err := i.checkLeftovers(ctx, conn); err != nil {
		return nil, err
	}

	for _, table := range i.schema.Tables {
		query := table.CreateSQL(true)
		if _, err := conn.ExecContext(ctx, query); err != nil {
			return nil, NewDatabaseError(query, "create table "+table.Name, fmt.Errorf("%w: %v", ErrSchemaCreation, err))
		}
	}

	report := &Report{}
	for _, table := range i.schema.Tables {
		if !table.Evolving {
			continue
		}
		result, err := i.migrator.Migrate(ctx, conn, table)
		if err != nil {
			return nil, err
		}
		report.Migrations = append(report.Migrations, result)
	}

	for _, index := range i.schema.Indexes {
		query := index.CreateSQL()
		if _, err := conn.ExecContext(ctx, query); err != nil {
			return nil, NewDatabaseError(query, "create index "+index.Name, fmt.Errorf("%w: %v", ErrSchemaCreation, err))
		}
	}

	report.Duration = time.Since(start)
	i.logger.InfoContext(ctx, "schema ready",
		"tables", len(i.schema.Tables),
		"indexes", len(i.schema.Indexes),
		"migrated", report.Migrated(),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func (i *Initializer) checkLeftovers(ctx context.Context, q Querier) error {
	inspector := NewSchemaInspector(q)
	for _, table := range i.schema.Tables {
		if !table.Evolving {
			continue
		}
		leftover, err := inspector.TableExists(ctx, table.OldName())
		if err != nil {
			return NewMigrationError(table.Name, StepCheckLeftover, err)
		}
		if !leftover {
			continue
		}

		present, err := inspector.TableExists(ctx, table.Name)
		if err != nil {
			return NewMigrationError(table.Name, StepCheckLeftover, err)
		}
		if !present {
			return NewMigrationError(table.Name, StepCheckLeftover,
				fmt.Errorf("%w: %w: only %s exists", ErrInterruptedMigration, ErrTableNotFound, table.OldName()))
		}
		return NewMigrationError(table.Name, StepCheckLeftover,
			fmt.Errorf("%w: %s exists alongside %s", ErrInterruptedMigration, table.OldName(), table.Name))
	}
	return nil
}

// Verify inspects the database without changing it.
func (i *Initializer) Verify(ctx context.Context) (*VerifyReport, error) {
	inspector := NewSchemaInspector(i.db)
	report := &VerifyReport{MissingColumns: map[string][]string{}}

	for _, table := range i.schema.Tables {
		current, err := inspector.Columns(ctx, table.Name)
		if err != nil {
			return nil, NewDatabaseError("", "inspect table "+table.Name, err)
		}
		if len(current) == 0 {
			report.MissingTables = append(report.MissingTables, table.Name)
		} else if missing := missingColumns(table.ColumnNames(), current); len(missing) > 0 {
			report.MissingColumns[table.Name] = missing
		}

		if table.Evolving {
			leftover, err := inspector.TableExists(ctx, table.OldName())
			if err != nil {
				return nil, NewDatabaseError("", "inspect table "+table.OldName(), err)
			}
			if leftover {
				report.LeftoverTables = append(report.LeftoverTables, table.OldName())
			}
		}
	}

	for _, index := range i.schema.Indexes {
		ok, err := inspector.IndexExists(ctx, index.Name)
		if err != nil {
			return nil, NewDatabaseError("", "inspect index "+index.Name, err)
		}
		if !ok {
			report.MissingIndexes = append(report.MissingIndexes, index.Name)
		}
	}

	return report, nil
}
