// Package migration owns the SQLite schema of the tracker and brings older database files
// up to date in place.
//
// The schema is declarative: each TableSpec lists its columns, and columns that older
// shapes may lack are marked Optional with a Backfill policy. On startup the Initializer:
//
//   - refuses to continue when a <table>_old table survives from an interrupted pass
//   - creates any missing table with CREATE TABLE IF NOT EXISTS
//   - runs the Migrator on evolving tables
//   - creates indexes
//
// A migration pass inspects the physical column set, and when columns are missing renames
// the table to <table>_old, recreates it, copies every row with its id preserved while the
// backfill policies fill the gaps, and drops the old table. The rename through the drop
// run in one transaction.
//
// Example usage:
//
//	db, err := NewConnectionManager(DefaultSQLiteConfig(path)).GetConnection()
//	if err != nil {
//		return err
//	}
//	if _, err := NewInitializer(db, DefaultSchema(), logger).Run(ctx); err != nil {
//		return err
//	}
package migration
