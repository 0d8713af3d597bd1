package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/example/roda-da-vida/internal/config"
	"github.com/example/roda-da-vida/internal/logging"
	"github.com/example/roda-da-vida/internal/persistence/sqlite"
	"github.com/example/roda-da-vida/internal/persistence/sqlite/migration"
)

var version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	out        io.Writer
	logOut     io.Writer
}

func newRootCmd(out, logOut io.Writer) *cobra.Command {
	c := &cli{out: out, logOut: logOut}

	rootCmd := &cobra.Command{
		Use:           "rodadavida",
		Short:         "Local-first life area tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(logOut)
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "optional YAML configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Open the store, migrate it and serve the loopback API",
		RunE:  c.runServe,
	}

	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}
	dbMigrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Initialize the schema and migrate evolving tables",
		RunE:  c.runDBMigrate,
	}
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the database with the expected schema without changing it",
		RunE:  c.runDBVerify,
	}
	dbResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every life area, score and action item",
		RunE:  c.runDBReset,
	}
	dbResetCmd.Flags().Bool("yes", false, "confirm that all data should be deleted")
	dbCmd.AddCommand(dbMigrateCmd, dbVerifyCmd, dbResetCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, version.String())
			return err
		},
	}

	rootCmd.AddCommand(serveCmd, dbCmd, versionCmd)
	return rootCmd
}

// setup loads configuration and builds the process logger. Failures are logged once.
func (c *cli) setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		logging.New("error", "json", c.logOut).Error("failed to load configuration", "error", err)
		return config.Config{}, nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, c.logOut).With("version", version.String())
	return cfg, logger, nil
}

// openStore opens the database described by cfg without touching the schema.
func openStore(cfg config.Config, logger *slog.Logger) (*sqlite.Store, error) {
	dbConfig := migration.DefaultSQLiteConfig(cfg.DBPath())
	dbConfig.BusyTimeout = cfg.DBBusyTimeout
	dbConfig.MaxOpenConns = cfg.DBMaxOpenConns
	dbConfig.MaxIdleConns = cfg.DBMaxOpenConns

	store, err := sqlite.Open(dbConfig, logger)
	if err != nil {
		logger.Error("failed to open storage", "path", cfg.DBPath(), "error", err)
		return nil, err
	}
	return store, nil
}

// openMigratedStore opens the database and runs initialization. Any failure is fatal for
// the caller.
func openMigratedStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sqlite.Store, error) {
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to apply migrations", "error", err)
		closeStore(store, logger)
		return nil, err
	}
	return store, nil
}

func closeStore(store *sqlite.Store, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Error("failed to close storage", "error", err)
	}
}
