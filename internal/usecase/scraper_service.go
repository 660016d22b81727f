package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopsense/backend/internal/domain"
	"github.com/shopsense/backend/internal/infrastructure/shopify"
)

// SourceClient fetches one listing page from a catalog source. An empty
// result with a nil error is the end-of-pagination signal.
type SourceClient interface {
	FetchPage(ctx context.Context, baseURL string, limit, page int) ([]shopify.RawProduct, error)
}

// SiteConfig describes one scrape target.
type SiteConfig struct {
	Name            string
	BaseURL         string
	DefaultCategory string
}

// ScraperServiceConfig holds configuration for the scraper service
type ScraperServiceConfig struct {
	PageSize  int
	PageDelay time.Duration
}

// ScraperService paginates source listings and writes normalized drafts to
// the catalog store as it goes, so a mid-run failure keeps partial progress.
type ScraperService struct {
	source    SourceClient
	store     domain.ProductStore
	logger    *slog.Logger
	pageSize  int
	pageDelay time.Duration
}

// NewScraperService creates a scraper service with dependencies
func NewScraperService(
	source SourceClient,
	store domain.ProductStore,
	logger *slog.Logger,
	config ScraperServiceConfig,
) *ScraperService {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = 250 // listing endpoint maximum
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ScraperService{
		source:    source,
		store:     store,
		logger:    logger.With("component", "scraper"),
		pageSize:  pageSize,
		pageDelay: config.PageDelay,
	}
}

// ScrapeSite paginates one site's listing from page 1. An empty page or a
// non-success response both terminate the listing cleanly; only a malformed
// body aborts the site with an error. Each normalized draft is upserted
// immediately; per-item errors are logged and skipped. Returns the number of
// products persisted.
func (s *ScraperService) ScrapeSite(ctx context.Context, site SiteConfig) (int, error) {
	logger := s.logger.With("site", site.Name)
	logger.Info("starting scrape", "base_url", site.BaseURL)

	saved := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return saved, err
		}

		items, err := s.source.FetchPage(ctx, site.BaseURL, s.pageSize, page)
		if err != nil {
			if errors.Is(err, domain.ErrSourceFetch) {
				// A non-success page ends the listing the same way an empty
				// one does; everything persisted so far stays persisted.
				logger.Info("listing ended", "page", page, "error", err)
				break
			}
			// A malformed body is fatal for the site.
			logger.Error("page fetch failed", "page", page, "error", err)
			return saved, err
		}
		if len(items) == 0 {
			logger.Info("no more products", "page", page)
			break
		}

		logger.Info("processing page", "page", page, "items", len(items))

		for _, raw := range items {
			draft, err := normalizeProduct(raw, site)
			if err != nil {
				if !errors.Is(err, domain.ErrSourceParse) {
					logger.Warn("skipping item", "title", raw.Title, "error", err)
				} else {
					logger.Debug("skipping item", "title", raw.Title, "error", err)
				}
				continue
			}

			result, err := s.store.UpsertByURL(ctx, draft)
			if err != nil {
				logger.Error("upsert failed", "url", draft.URL, "error", err)
				continue
			}

			saved++
			logger.Debug("saved product",
				"title", draft.Title,
				"price", draft.Price,
				"created", result.Created)
		}

		if err := s.pause(ctx); err != nil {
			return saved, err
		}
	}

	logger.Info("scrape completed", "saved", saved)
	return saved, nil
}

// ScrapeAll runs every configured site sequentially to bound concurrent load
// on sources sharing infrastructure. One site's failure does not stop the
// others. Returns per-site persisted counts.
func (s *ScraperService) ScrapeAll(ctx context.Context, sites []SiteConfig) map[string]int {
	counts := make(map[string]int, len(sites))

	for _, site := range sites {
		saved, err := s.ScrapeSite(ctx, site)
		counts[site.Name] = saved

		if err != nil {
			if ctx.Err() != nil {
				// Cancellation stops the whole run, not just this site.
				return counts
			}
			s.logger.Error("site scrape aborted", "site", site.Name, "error", err)
		}
	}

	return counts
}

// pause sleeps between pages to avoid hammering the source, honoring
// cancellation.
func (s *ScraperService) pause(ctx context.Context) error {
	if s.pageDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.pageDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
