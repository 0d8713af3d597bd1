package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/roda-da-vida/internal/application"
	httptransport "github.com/example/roda-da-vida/internal/http"
	"github.com/example/roda-da-vida/internal/persistence/sqlite"
)

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
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

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newHandler(store, time.Now, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("tracker API listening", "addr", server.Addr, "db", cfg.DBPath())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			logger.Error("server encountered error", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// newHandler wires services and handlers over an initialized store.
func newHandler(store *sqlite.Store, now func() time.Time, logger *slog.Logger) http.Handler {
	lifeAreas := store.LifeAreas()

	areaService := application.NewLifeAreaServiceWithLogger(lifeAreas, now, logger)
	scoreService := application.NewScoreServiceWithLogger(store.Scores(), lifeAreas, now, logger)
	itemService := application.NewActionItemServiceWithLogger(store.ActionItems(), now, logger)
	resetService := application.NewResetServiceWithLogger(store.Resets(), logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Health:      httptransport.NewHealthHandler(store, version.String(), logger),
		Areas:       httptransport.NewLifeAreaHandler(areaService, logger),
		Scores:      httptransport.NewScoreHandler(scoreService, logger),
		ActionItems: httptransport.NewActionItemHandler(itemService, logger),
		Resets:      httptransport.NewResetHandler(resetService, logger),
		Logger:      logger,
	})
}
