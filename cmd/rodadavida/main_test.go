package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/roda-da-vida/internal/persistence/sqlite"
	"github.com/example/roda-da-vida/internal/persistence/sqlite/migration"
	"github.com/example/roda-da-vida/internal/testfixtures"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd(&out, &logs)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func useDataDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".roda-da-vida")
	t.Setenv("RODA_DATA_DIR", dir)
	t.Setenv("RODA_LOG_LEVEL", "debug")
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.String(), strings.TrimSpace(out))
}

func TestDBMigrate_FreshDatabase(t *testing.T) {
	dir := useDataDir(t)

	out, logs, err := runCLI(t, "db", "migrate")
	require.NoError(t, err, logs)
	assert.Contains(t, out, "action_items: up to date")
	assert.Contains(t, out, "schema ready at "+filepath.Join(dir, "data.db"))

	_, err = os.Stat(filepath.Join(dir, "data.db"))
	require.NoError(t, err)

	out, _, err = runCLI(t, "db", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "schema OK")
}

func TestDBMigrate_LegacyActionItems(t *testing.T) {
	dir := useDataDir(t)
	path := filepath.Join(dir, "data.db")

	legacy, err := migration.NewConnectionManager(migration.TempFileTestSQLiteConfig(path)).GetConnection()
	require.NoError(t, err)
	for _, stmt := range []string{
		migration.LifeAreasTable.CreateSQL(true),
		`INSERT INTO life_areas (id, name, color, "order", created_at, updated_at) VALUES (1, 'Health', '#0f0', 0, 1, 1)`,
		testfixtures.LegacyActionItemsDDL,
		`INSERT INTO action_items (id, area_id, title, created_at) VALUES (1, 1, 'walk', 100)`,
	} {
		_, err := legacy.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, legacy.Close())

	out, _, err := runCLI(t, "db", "verify")
	require.ErrorIs(t, err, errSchemaMismatch)
	assert.Contains(t, out, "missing columns in action_items")

	out, logs, err := runCLI(t, "db", "migrate")
	require.NoError(t, err, logs)
	assert.Contains(t, out, "action_items: added")
	assert.Contains(t, out, "copied 1 rows")

	out, _, err = runCLI(t, "db", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "schema OK")
}

func TestDBVerify_ReportsLeftoverTable(t *testing.T) {
	dir := useDataDir(t)

	_, _, err := runCLI(t, "db", "migrate")
	require.NoError(t, err)

	db, err := migration.NewConnectionManager(migration.TempFileTestSQLiteConfig(filepath.Join(dir, "data.db"))).GetConnection()
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE action_items_old (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err := runCLI(t, "db", "verify")
	require.ErrorIs(t, err, errSchemaMismatch)
	assert.Contains(t, out, "leftover table from an interrupted migration: action_items_old")

	_, logs, err := runCLI(t, "db", "migrate")
	require.ErrorIs(t, err, migration.ErrInterruptedMigration)
	assert.Contains(t, logs, "failed to apply migrations")
}

func TestDBReset_RequiresConfirmation(t *testing.T) {
	useDataDir(t)

	out, _, err := runCLI(t, "db", "reset")
	require.ErrorIs(t, err, errResetUnconfirmed)
	assert.Contains(t, out, "--yes")

	out, logs, err := runCLI(t, "db", "reset", "--yes")
	require.NoError(t, err, logs)
	assert.Contains(t, out, "all data deleted")
}

func TestServe_InvalidConfigurationFails(t *testing.T) {
	useDataDir(t)
	t.Setenv("RODA_HTTP_ADDR", " ")

	_, logs, err := runCLI(t, "serve")
	require.Error(t, err)
	assert.Contains(t, logs, "failed to load configuration")
}

func TestNewHandler_ServesTrackerAPI(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.db")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	store, err := sqlite.Open(migration.TempFileTestSQLiteConfig(path), logger)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	server := httptest.NewServer(newHandler(store, clock.Now, logger))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, version.String(), health["version"])

	resp, err = http.Post(server.URL+"/api/areas", "application/json", strings.NewReader(`{"name":"Health","color":"#00ff00"}`))
	require.NoError(t, err)
	var created struct {
		Area struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			CreatedAt string `json:"created_at"`
		} `json:"area"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Health", created.Area.Name)
	assert.Equal(t, testfixtures.ReferenceTime().UTC().Format(time.RFC3339), created.Area.CreatedAt)
}
