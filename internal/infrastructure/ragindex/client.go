// Package ragindex talks to the hosted semantic index service. Embedding and
// vector storage happen inside the service; this client only moves documents
// and query results across the wire.
package ragindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopsense/backend/internal/domain"
)

// Client calls the index service's upsert and search endpoints.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates an index client. The service runs on constrained
// hardware and rejects bursts, so calls are paced client-side as well.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 2),
		logger:      logger.With("component", "ragindex"),
	}
}

// Upsert pushes one document to the index, keyed by document id. Any non-2xx
// status and any transport error are treated identically: the caller leaves
// the record stale and retries on a later cycle.
func (c *Client) Upsert(ctx context.Context, doc domain.IndexDocument) error {
	resp, err := c.post(ctx, "/index-product", doc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPropagation, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d for product %d", domain.ErrPropagation, resp.StatusCode, doc.ID)
	}
	return nil
}

// searchRequest is the wire shape of a nearest-neighbor query.
type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// searchResponse mirrors the service's zipped metadata/distance pairs.
type searchResponse struct {
	Results []struct {
		Metadata domain.CandidateMetadata `json:"metadata"`
		Score    float64                  `json:"score"` // cosine distance
	} `json:"results"`
}

// Query runs a nearest-neighbor search for the raw query text and returns up
// to topK results with cosine distances.
func (c *Client) Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	resp, err := c.post(ctx, "/search", searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", domain.ErrIndexUnavailable, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrIndexUnavailable, err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, domain.SearchResult{
			Metadata: r.Metadata,
			Distance: r.Score,
		})
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
