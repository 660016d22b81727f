// Package shopify fetches paginated product listings from Shopify-compatible
// catalog APIs (the /products.json endpoint).
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopsense/backend/internal/domain"
)

// RawProduct is one unnormalized item from a listing page.
type RawProduct struct {
	Title       string       `json:"title"`
	Handle      string       `json:"handle"`
	BodyHTML    string       `json:"body_html"`
	ProductType string       `json:"product_type"`
	Tags        []string     `json:"tags"`
	Images      []RawImage   `json:"images"`
	Variants    []RawVariant `json:"variants"`
}

// RawImage is one image entry of a raw product.
type RawImage struct {
	Src string `json:"src"`
}

// RawVariant is one purchasable variant; only the price is used.
type RawVariant struct {
	Price string `json:"price"`
}

// listingResponse is the page envelope. A missing or empty products key is
// the end-of-pagination signal; no total-count field is trusted.
type listingResponse struct {
	Products []RawProduct `json:"products"`
}

// Client fetches listing pages from one or more Shopify storefronts.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a listing client. A single limiter spans all sites since
// they are scraped sequentially and often share infrastructure.
func NewClient() *Client {
	// Storefront APIs tolerate roughly 2 req/s per client before throttling
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: limiter,
	}
}

// FetchPage requests page number page of up to limit products from the
// site's listing endpoint. An empty slice with a nil error means the site
// has no more pages. Non-2xx responses map to ErrSourceFetch; a body that
// is not valid JSON maps to ErrSourceParse and is fatal for the site.
func (c *Client) FetchPage(ctx context.Context, baseURL string, limit, page int) ([]RawProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("limit", strconv.Itoa(limit))
	params.Add("page", strconv.Itoa(page))
	reqURL := fmt.Sprintf("%s/products.json?%s", baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ShopSense/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d for page %d", domain.ErrSourceFetch, resp.StatusCode, page)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", domain.ErrSourceParse, page, err)
	}

	return listing.Products, nil
}

// ProductURL builds the canonical product page URL from the listing slug.
func ProductURL(baseURL, handle string) string {
	return fmt.Sprintf("%s/products/%s", baseURL, handle)
}
