package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configEnv = []string{
	"RODA_DATA_DIR",
	"RODA_DB_FILE",
	"RODA_HTTP_ADDR",
	"RODA_LOG_LEVEL",
	"RODA_LOG_FORMAT",
	"RODA_DB_BUSY_TIMEOUT",
	"RODA_DB_MAX_OPEN_CONNS",
	"RODA_SHUTDOWN_TIMEOUT",
}

// clearEnv unsets every tracker variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		home := t.TempDir()
		t.Setenv("HOME", home)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.DataDir != filepath.Join(home, ".roda-da-vida") {
			t.Fatalf("expected data dir under home, got %q", cfg.DataDir)
		}
		if cfg.DBPath() != filepath.Join(home, ".roda-da-vida", "data.db") {
			t.Fatalf("unexpected db path: %q", cfg.DBPath())
		}
		if cfg.HTTPAddr != "127.0.0.1:8737" {
			t.Fatalf("expected loopback default address, got %q", cfg.HTTPAddr)
		}
		if cfg.DBBusyTimeout != 5*time.Second {
			t.Fatalf("expected 5s busy timeout, got %v", cfg.DBBusyTimeout)
		}
		if cfg.DBMaxOpenConns != 1 {
			t.Fatalf("expected single writer connection, got %d", cfg.DBMaxOpenConns)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Fatalf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		t.Setenv("RODA_DATA_DIR", dir)
		t.Setenv("RODA_DB_FILE", "tracker.db")
		t.Setenv("RODA_HTTP_ADDR", "127.0.0.1:9000")
		t.Setenv("RODA_LOG_LEVEL", "debug")
		t.Setenv("RODA_DB_BUSY_TIMEOUT", "250ms")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.DBPath() != filepath.Join(dir, "tracker.db") {
			t.Fatalf("unexpected db path: %q", cfg.DBPath())
		}
		if cfg.HTTPAddr != "127.0.0.1:9000" || cfg.LogLevel != "debug" {
			t.Fatalf("unexpected overrides: %+v", cfg)
		}
		if cfg.DBBusyTimeout != 250*time.Millisecond {
			t.Fatalf("expected 250ms busy timeout, got %v", cfg.DBBusyTimeout)
		}
	})

	t.Run("reads yaml file with environment precedence", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "roda.yaml")
		content := "data_dir: " + dir + "\nhttp_addr: 127.0.0.1:7000\nlog_format: text\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv("RODA_HTTP_ADDR", "127.0.0.1:7001")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.DataDir != dir || cfg.LogFormat != "text" {
			t.Fatalf("expected file values, got %+v", cfg)
		}
		if cfg.HTTPAddr != "127.0.0.1:7001" {
			t.Fatalf("expected environment to win, got %q", cfg.HTTPAddr)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RODA_DATA_DIR", t.TempDir())
		t.Setenv("RODA_LOG_LEVEL", "loud")
		t.Setenv("RODA_LOG_FORMAT", "xml")
		t.Setenv("RODA_DB_MAX_OPEN_CONNS", "0")

		_, err := Load("")
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		for _, key := range []string{"RODA_LOG_LEVEL", "RODA_LOG_FORMAT", "RODA_DB_MAX_OPEN_CONNS"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in error, got %q", key, err.Error())
			}
		}
	})

	t.Run("rejects unparsable durations", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RODA_DATA_DIR", t.TempDir())
		t.Setenv("RODA_SHUTDOWN_TIMEOUT", "soon")

		if _, err := Load(""); err == nil {
			t.Fatalf("expected parse error")
		}
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
