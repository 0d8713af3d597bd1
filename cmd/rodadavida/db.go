package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/roda-da-vida/internal/application"
)

var (
	errSchemaMismatch   = errors.New("database does not match the expected schema")
	errResetUnconfirmed = errors.New("refusing to reset without --yes")
)

func (c *cli) runDBMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}

	store, err := openMigratedStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	report := store.Report()
	for _, m := range report.Migrations {
		if m.Migrated() {
			fmt.Fprintf(c.out, "%s: added %s, copied %d rows\n", m.Table, strings.Join(m.Missing, ", "), m.RowsCopied)
		} else {
			fmt.Fprintf(c.out, "%s: up to date\n", m.Table)
		}
	}
	fmt.Fprintf(c.out, "schema ready at %s (%s)\n", cfg.DBPath(), report.Duration.Round(time.Millisecond))
	return nil
}

func (c *cli) runDBVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	report, err := store.Verify(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to verify schema", "error", err)
		return err
	}

	if report.OK() {
		fmt.Fprintln(c.out, "schema OK")
		return nil
	}

	for _, table := range report.LeftoverTables {
		fmt.Fprintf(c.out, "leftover table from an interrupted migration: %s\n", table)
	}
	for _, table := range report.MissingTables {
		fmt.Fprintf(c.out, "missing table: %s\n", table)
	}
	tables := make([]string, 0, len(report.MissingColumns))
	for table := range report.MissingColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(c.out, "missing columns in %s: %s\n", table, strings.Join(report.MissingColumns[table], ", "))
	}
	for _, index := range report.MissingIndexes {
		fmt.Fprintf(c.out, "missing index: %s\n", index)
	}
	return errSchemaMismatch
}

func (c *cli) runDBReset(cmd *cobra.Command, args []string) error {
	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		fmt.Fprintln(c.out, errResetUnconfirmed.Error())
		return errResetUnconfirmed
	}

	ctx := cmd.Context()
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}

	store, err := openMigratedStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	if err := application.NewResetServiceWithLogger(store.Resets(), logger).ResetAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "all data deleted")
	return nil
}
