package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopsense/backend/config"
	httpDelivery "github.com/shopsense/backend/internal/delivery/http"
	"github.com/shopsense/backend/internal/infrastructure/cache"
	"github.com/shopsense/backend/internal/infrastructure/gemini"
	"github.com/shopsense/backend/internal/infrastructure/postgres"
	"github.com/shopsense/backend/internal/infrastructure/ragindex"
	applog "github.com/shopsense/backend/internal/log"
	"github.com/shopsense/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := applog.New(applog.Config{
		Level: logLevel(cfg.Server.Environment),
		JSON:  cfg.Server.Environment == "production",
	})

	logger.Info("starting shopsense backend",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port)

	ctx := context.Background()

	// Catalog store
	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	pool, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewProductStore(pool, logger)

	// External collaborators
	indexClient := ragindex.NewClient(cfg.Index.BaseURL, cfg.Index.Timeout, logger)

	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set SHOPSENSE_LLM_API_KEY)")
	}
	llmClient, err := gemini.NewClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return err
	}

	// Usecase layer
	recommendService := usecase.NewRecommendService(
		indexClient,
		llmClient,
		cache.NewMemoryCache(),
		logger,
		usecase.RecommendServiceConfig{
			TopK:               cfg.Chat.TopK,
			RelevanceThreshold: cfg.Chat.RelevanceThreshold,
			MaxReturned:        cfg.Chat.MaxReturned,
			CacheTTL:           cfg.Chat.CacheTTL,
		},
	)

	reconciler := usecase.NewReconciler(store, indexClient, logger, usecase.ReconcilerConfig{
		BatchLimit: cfg.Sync.BatchLimit,
		Pacer:      usecase.SleepPacer{Delay: cfg.Sync.ItemDelay},
	})

	// HTTP delivery
	handler := httpDelivery.NewHandler(store, recommendService, reconciler)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", "addr", addr)

	return router.Run(addr)
}

func logLevel(environment string) slog.Level {
	if environment == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
