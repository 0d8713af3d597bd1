package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/roda-da-vida/internal/persistence"
	"github.com/example/roda-da-vida/internal/persistence/sqlite"
	"github.com/example/roda-da-vida/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary SQLite file
// for integration-style tests.
type SQLiteHarness struct {
	Store       *sqlite.Store
	Path        string
	LifeAreas   persistence.LifeAreaRepository
	Scores      persistence.ScoreRepository
	ActionItems persistence.ActionItemRepository
	Resets      persistence.ResetRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()
	return NewSQLiteHarnessWithSeed(tb)
}

// NewSQLiteHarnessWithSeed executes seed statements against a fresh file before the
// store is opened and migrated, so tests can start from a database written by an
// older release.
func NewSQLiteHarnessWithSeed(tb testing.TB, seed ...string) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), ".roda-da-vida", "data.db")
	if len(seed) > 0 {
		SeedDatabase(tb, path, seed...)
	}

	storage, err := sqlite.Open(migration.TempFileTestSQLiteConfig(path), nil)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Store:       storage,
		Path:        path,
		LifeAreas:   storage.LifeAreas(),
		Scores:      storage.Scores(),
		ActionItems: storage.ActionItems(),
		Resets:      storage.Resets(),
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedDatabase runs raw statements against the database at path, bypassing the store.
func SeedDatabase(tb testing.TB, path string, statements ...string) {
	tb.Helper()

	db, err := migration.NewConnectionManager(migration.TempFileTestSQLiteConfig(path)).GetConnection()
	if err != nil {
		tb.Fatalf("failed to open seed connection: %v", err)
	}
	defer db.Close()

	for _, stmt := range statements {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			tb.Fatalf("seed statement failed: %v\n%s", err, stmt)
		}
	}
}

// CreateLifeArea persists a fixture and returns the stored area.
func (h *SQLiteHarness) CreateLifeArea(tb testing.TB, opts ...LifeAreaOption) persistence.LifeArea {
	tb.Helper()
	area, err := h.LifeAreas.CreateLifeArea(context.Background(), NewLifeAreaFixture(opts...).Persistence())
	if err != nil {
		tb.Fatalf("CreateLifeArea failed: %v", err)
	}
	return area
}

// CreateActionItem persists a fixture and returns the stored item.
func (h *SQLiteHarness) CreateActionItem(tb testing.TB, areaID int64, opts ...ActionItemOption) persistence.ActionItem {
	tb.Helper()
	item, err := h.ActionItems.CreateActionItem(context.Background(), NewActionItemFixture(areaID, opts...).Persistence())
	if err != nil {
		tb.Fatalf("CreateActionItem failed: %v", err)
	}
	return item
}
