package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/example/roda-da-vida/internal/persistence"
	"github.com/example/roda-da-vida/internal/persistence/sqlite/migration"
)

var (
	_ persistence.LifeAreaRepository   = (*LifeAreaRepository)(nil)
	_ persistence.ScoreRepository      = (*ScoreRepository)(nil)
	_ persistence.ActionItemRepository = (*ActionItemRepository)(nil)
	_ persistence.ResetRepository      = (*ResetRepository)(nil)
)

// ErrNotInitialized is returned by Conn before Migrate has completed.
var ErrNotInitialized = errors.New("sqlite: store not initialized")

// Store is the process-wide handle on the tracker database. It is constructed once at
// startup and passed to every component that needs storage.
type Store struct {
	pool   *ConnectionPool
	schema migration.Schema
	logger *slog.Logger

	migrateMu sync.Mutex
	ready     atomic.Bool
	report    *migration.Report
}

// Open creates the containing directory and opens the database. It does not touch the schema.
func Open(config migration.SQLiteConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:   pool,
		schema: migration.DefaultSchema(),
		logger: logger.With("component", "store", "path", config.Path),
	}, nil
}

// Migrate initializes the schema and migrates evolving tables. It runs to completion before
// Conn hands out connections; later calls return nil without touching the database.
func (s *Store) Migrate(ctx context.Context) error {
	s.migrateMu.Lock()
	defer s.migrateMu.Unlock()

	if s.ready.Load() {
		return nil
	}

	report, err := migration.NewInitializer(s.pool.DB(), s.schema, s.logger).Run(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "schema initialization failed", "error", err)
		return fmt.Errorf("initialize schema: %w", err)
	}

	s.report = report
	s.ready.Store(true)
	return nil
}

// Report returns the outcome of the last successful Migrate, or nil.
func (s *Store) Report() *migration.Report {
	s.migrateMu.Lock()
	defer s.migrateMu.Unlock()
	return s.report
}

// Verify compares the database with the schema without changing anything.
func (s *Store) Verify(ctx context.Context) (*migration.VerifyReport, error) {
	return migration.NewInitializer(s.pool.DB(), s.schema, s.logger).Verify(ctx)
}

// Conn returns a working connection for a single operation. Callers must close it.
// It never runs migrations.
func (s *Store) Conn(ctx context.Context) (*sql.Conn, error) {
	if !s.ready.Load() {
		return nil, ErrNotInitialized
	}
	conn, err := s.pool.DB().Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// Ping checks that the database still answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// LifeAreas returns the life area repository.
func (s *Store) LifeAreas() *LifeAreaRepository {
	return NewLifeAreaRepository(s)
}

// Scores returns the score repository.
func (s *Store) Scores() *ScoreRepository {
	return NewScoreRepository(s)
}

// ActionItems returns the action item repository.
func (s *Store) ActionItems() *ActionItemRepository {
	return NewActionItemRepository(s)
}

// Resets returns the reset repository.
func (s *Store) Resets() *ResetRepository {
	return NewResetRepository(s)
}

// withConn runs fn on a per-operation connection.
func (s *Store) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// withTx runs fn in a transaction on a per-operation connection.
func (s *Store) withTx(ctx context.Context, fn TransactionFunc) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		return withTransaction(ctx, conn, fn)
	})
}
