package migration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultSQLiteConfig(t *testing.T) {
	dbPath := "/tmp/test.db"
	config := DefaultSQLiteConfig(dbPath)

	if config.Path != dbPath {
		t.Errorf("Expected Path %s, got %s", dbPath, config.Path)
	}
	if config.BusyTimeout != 5*time.Second {
		t.Errorf("Expected BusyTimeout 5s, got %v", config.BusyTimeout)
	}
	if !config.EnableForeignKeys {
		t.Error("Expected EnableForeignKeys to be true")
	}
	if config.JournalMode != "WAL" {
		t.Errorf("Expected JournalMode WAL, got %s", config.JournalMode)
	}
	if config.MaxOpenConns != 1 {
		t.Errorf("Expected single writer connection, got %d", config.MaxOpenConns)
	}
}

func TestSQLiteConfig_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SQLiteConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *SQLiteConfig) {}},
		{name: "empty path", mutate: func(c *SQLiteConfig) { c.Path = " " }, wantErr: "Path cannot be empty"},
		{name: "negative busy timeout", mutate: func(c *SQLiteConfig) { c.BusyTimeout = -time.Second }, wantErr: "BusyTimeout"},
		{name: "bad journal mode", mutate: func(c *SQLiteConfig) { c.JournalMode = "FAST" }, wantErr: "invalid journal mode"},
		{name: "bad synchronous", mutate: func(c *SQLiteConfig) { c.Synchronous = "SOMETIMES" }, wantErr: "invalid synchronous mode"},
		{name: "negative open conns", mutate: func(c *SQLiteConfig) { c.MaxOpenConns = -1 }, wantErr: "MaxOpenConns"},
		{name: "negative idle conns", mutate: func(c *SQLiteConfig) { c.MaxIdleConns = -1 }, wantErr: "MaxIdleConns"},
		{name: "negative lifetime", mutate: func(c *SQLiteConfig) { c.ConnMaxLifetime = -time.Second }, wantErr: "ConnMaxLifetime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSQLiteConfig("/tmp/test.db")
			tt.mutate(&config)

			err := NewConnectionManager(config).ValidateConfig()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConnectionManager_DataSourceName(t *testing.T) {
	dsn := NewConnectionManager(DefaultSQLiteConfig("/data/roda.db")).DataSourceName()

	if !strings.HasPrefix(dsn, "file:/data/roda.db?") {
		t.Fatalf("unexpected DSN prefix: %s", dsn)
	}
	for _, want := range []string{"busy_timeout%285000%29", "foreign_keys%281%29", "journal_mode%28WAL%29", "synchronous%28NORMAL%29"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %s missing %s", dsn, want)
		}
	}

	memory := NewConnectionManager(InMemoryTestSQLiteConfig()).DataSourceName()
	if !strings.HasPrefix(memory, "file::memory:?") {
		t.Errorf("unexpected in-memory DSN: %s", memory)
	}
}

func TestConnectionManager_CreateDatabaseFile_NestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".roda-da-vida", "deep", "data.db")

	if err := NewConnectionManager(DefaultSQLiteConfig(path)).CreateDatabaseFile(); err != nil {
		t.Fatalf("CreateDatabaseFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}
}

func TestConnectionManager_CreateDatabaseFile_InMemory(t *testing.T) {
	if err := NewConnectionManager(InMemoryTestSQLiteConfig()).CreateDatabaseFile(); err != nil {
		t.Fatalf("in-memory database should not touch the filesystem: %v", err)
	}
}

func TestConnectionManager_GetConnection_AppliesPragmasToEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	db, err := NewConnectionManager(TempFileTestSQLiteConfig(path)).GetConnection()
	if err != nil {
		t.Fatalf("GetConnection() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	first, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer first.Close()
	second, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer second.Close()

	for _, q := range []Querier{first, second} {
		var fk int
		if err := q.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("PRAGMA foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Fatalf("expected foreign_keys=1 on every connection, got %d", fk)
		}
	}
}

func TestConnectionManager_GetConnection_InvalidConfig(t *testing.T) {
	_, err := NewConnectionManager(SQLiteConfig{}).GetConnection()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConnectionManager_GetConnection_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewConnectionManager(DefaultSQLiteConfig(filepath.Join(blocker, "data.db"))).GetConnection()
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("expected ErrConnectionFailed, got %v", err)
	}
}
