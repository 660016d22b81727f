// The scraper process pulls every configured site into the catalog store,
// then drains the propagation backlog so new products become searchable.
// With scraper.interval set it keeps doing so on a fixed schedule.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsense/backend/config"
	"github.com/shopsense/backend/internal/infrastructure/postgres"
	"github.com/shopsense/backend/internal/infrastructure/ragindex"
	"github.com/shopsense/backend/internal/infrastructure/shopify"
	applog "github.com/shopsense/backend/internal/log"
	"github.com/shopsense/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "scraper: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(cfg.Scraper.Sites) == 0 {
		return fmt.Errorf("no scraper sites configured")
	}

	logger := applog.New(applog.Config{JSON: cfg.Server.Environment == "production"})

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
	scraper := usecase.NewScraperService(shopify.NewClient(), store, logger, usecase.ScraperServiceConfig{
		PageSize:  cfg.Scraper.PageSize,
		PageDelay: cfg.Scraper.PageDelay,
	})

	indexClient := ragindex.NewClient(cfg.Index.BaseURL, cfg.Index.Timeout, logger)
	reconciler := usecase.NewReconciler(store, indexClient, logger, usecase.ReconcilerConfig{
		BatchLimit: cfg.Sync.BatchLimit,
		Pacer:      usecase.SleepPacer{Delay: cfg.Sync.ItemDelay},
	})

	sites := make([]usecase.SiteConfig, 0, len(cfg.Scraper.Sites))
	for _, site := range cfg.Scraper.Sites {
		sites = append(sites, usecase.SiteConfig{
			Name:            site.Name,
			BaseURL:         site.BaseURL,
			DefaultCategory: site.DefaultCategory,
		})
	}

	job := func() {
		counts := scraper.ScrapeAll(ctx, sites)
		for name, saved := range counts {
			logger.Info("site done", "site", name, "saved", saved)
		}

		if synced, err := reconciler.ReconcileAll(ctx); err != nil {
			logger.Error("post-scrape sync incomplete", "synced", synced, "error", err)
		} else {
			logger.Info("post-scrape sync done", "synced", synced)
		}
	}

	job()

	if cfg.Scraper.Interval <= 0 {
		return nil
	}

	logger.Info("scheduling scrapes", "interval", cfg.Scraper.Interval)
	ticker := time.NewTicker(cfg.Scraper.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			job()
		}
	}
}
