package migration

import (
	"errors"
	"fmt"
)

// Error kinds reported by the initializer and the migrator. All of them are fatal at startup.
var (
	// ErrMigrationFailed indicates that a table transformation step failed
	ErrMigrationFailed = errors.New("migration execution failed")

	// ErrInterruptedMigration indicates that a previous pass renamed a table but never replaced it
	ErrInterruptedMigration = errors.New("interrupted migration detected")

	// ErrTableNotFound indicates that a table expected under its name is missing
	ErrTableNotFound = errors.New("table not found under expected name")

	// ErrMissingRequiredColumn indicates that an old table lacks a column that cannot be backfilled
	ErrMissingRequiredColumn = errors.New("required column missing from old table")

	// ErrSchemaCreation indicates that a baseline table or index could not be created
	ErrSchemaCreation = errors.New("schema creation failed")

	// ErrConnectionFailed indicates that the database file could not be prepared or opened
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrInvalidConfig indicates that the SQLite configuration is unusable
	ErrInvalidConfig = errors.New("invalid SQLite configuration")
)

// Migration steps named in MigrationError.
const (
	StepInspect       = "inspect columns"
	StepPlan          = "plan projection"
	StepDisableFK     = "disable foreign keys"
	StepBegin         = "begin transaction"
	StepRename        = "rename table"
	StepCreate        = "create table"
	StepSelect        = "select rows"
	StepBackfill      = "backfill row"
	StepInsert        = "insert row"
	StepDrop          = "drop table"
	StepCommit        = "commit transaction"
	StepRestoreFK     = "restore foreign keys"
	StepCheckLeftover = "check leftover table"
)

// MigrationError wraps a failed migration step with the table and step it belongs to
type MigrationError struct {
	Table string // Table being migrated
	Step  string // Step that failed (rename table, create table, ...)
	Err   error  // Underlying error
}

// Error implements the error interface
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrate %s: %s: %v", e.Table, e.Step, e.Err)
}

// Unwrap returns the underlying error for error unwrapping
func (e *MigrationError) Unwrap() error {
	return e.Err
}

// Is reports ErrMigrationFailed for every migration error in addition to the wrapped chain.
func (e *MigrationError) Is(target error) bool {
	if target == ErrMigrationFailed {
		return true
	}
	return errors.Is(e.Err, target)
}

// NewMigrationError creates a new MigrationError with context
func NewMigrationError(table, step string, err error) *MigrationError {
	return &MigrationError{
		Table: table,
		Step:  step,
		Err:   err,
	}
}

// DatabaseError wraps database-related errors raised outside a table transformation
type DatabaseError struct {
	Query     string // SQL query that failed (if applicable)
	Operation string // Database operation (create table life_areas, open, ...)
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(query, operation string, err error) *DatabaseError {
	return &DatabaseError{
		Query:     query,
		Operation: operation,
		Err:       err,
	}
}
