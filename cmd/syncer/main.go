// The syncer process keeps the search index consistent with the catalog:
// an initial full sync, then bounded reconciliation cycles forever.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopsense/backend/config"
	"github.com/shopsense/backend/internal/infrastructure/postgres"
	"github.com/shopsense/backend/internal/infrastructure/ragindex"
	applog "github.com/shopsense/backend/internal/log"
	"github.com/shopsense/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "syncer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := applog.New(applog.Config{JSON: cfg.Server.Environment == "production"})
	logger.Info("starting sync reconciler",
		"interval", cfg.Sync.Interval,
		"batch_limit", cfg.Sync.BatchLimit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	pool, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewProductStore(pool, logger)
	indexClient := ragindex.NewClient(cfg.Index.BaseURL, cfg.Index.Timeout, logger)

	reconciler := usecase.NewReconciler(store, indexClient, logger, usecase.ReconcilerConfig{
		BatchLimit: cfg.Sync.BatchLimit,
		Pacer:      usecase.SleepPacer{Delay: cfg.Sync.ItemDelay},
	})

	return reconciler.Run(ctx, cfg.Sync.Interval)
}
