package domain

import (
	"strings"
	"time"
)

// Product is the canonical catalog entity. Identity is the store-assigned
// ID; the URL is the natural key used for dedup across repeated scrapes.
type Product struct {
	ID          int64      `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Price       string     `json:"price"` // decimal-as-text, e.g. "499" or "499.5"
	Description string     `json:"description"`
	Features    string     `json:"features"` // comma-joined tags
	Images      string     `json:"images"`   // comma-joined image URLs, ordered
	Category    string     `json:"category"`
	Source      string     `json:"source"` // originating scraper name
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SyncedAt    *time.Time `json:"syncedAt,omitempty"` // nil = never propagated
}

// Stale reports whether the product needs propagation to the search index:
// it has never been synced, or its content changed after the last sync.
func (p *Product) Stale() bool {
	return p.SyncedAt == nil || p.UpdatedAt.After(*p.SyncedAt)
}

// FirstImage returns the first image URL, or "" when the product has none.
func (p *Product) FirstImage() string {
	img, _, _ := strings.Cut(p.Images, ",")
	return strings.TrimSpace(img)
}

// ProductDraft is a normalized scrape result, ready for upsert. It carries
// every mutable field of Product but no identity or timestamps.
type ProductDraft struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Features    string `json:"features"`
	Images      string `json:"images"`
	Category    string `json:"category"`
	Source      string `json:"source"`
}

// Changes reports whether applying the draft would modify any mutable field
// of the product. Used to skip no-op updates on unchanged re-scrapes.
func (d *ProductDraft) Changes(p *Product) bool {
	return d.Title != p.Title ||
		d.Price != p.Price ||
		d.Description != p.Description ||
		d.Features != p.Features ||
		d.Images != p.Images ||
		d.Category != p.Category ||
		d.Source != p.Source
}

// IndexDocument is the upsert payload sent to the search index, keyed by
// the product's store-assigned id.
type IndexDocument struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Features    string `json:"features"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
}

// IndexDocumentFor builds the index payload for a product.
func IndexDocumentFor(p *Product) IndexDocument {
	return IndexDocument{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Features:    p.Features,
		Category:    p.Category,
		URL:         p.URL,
		ImageURL:    p.FirstImage(),
	}
}
