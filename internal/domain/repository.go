package domain

import (
	"context"
	"time"
)

// UpsertResult reports what an upsert-by-url did.
type UpsertResult struct {
	Product Product
	Created bool // false = existing url was updated (or unchanged)
}

// ProductStore defines the catalog system-of-record: identity, dedup and
// propagation-state bookkeeping all live behind this interface.
type ProductStore interface {
	// UpsertByURL inserts the draft or updates the existing record with the
	// same url. Idempotent on content: an unchanged re-scrape is a no-op.
	UpsertByURL(ctx context.Context, draft ProductDraft) (*UpsertResult, error)

	// ListStale returns up to limit products whose last propagation is
	// missing or older than their last content change, in insertion order.
	ListStale(ctx context.Context, limit int) ([]Product, error)

	// MarkSynced records a confirmed successful propagation. Returns
	// ErrProductNotFound when no such product exists.
	MarkSynced(ctx context.Context, id int64, syncedAt time.Time) error

	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
}

// IndexClient defines the contract with the external semantic search index.
// Embedding and vector storage happen inside it; the core only upserts
// documents and reads back nearest-neighbor results.
type IndexClient interface {
	// Upsert pushes the document to the index, keyed by document id.
	// Idempotent by id: a redundant re-upsert is harmless.
	Upsert(ctx context.Context, doc IndexDocument) error

	// Query runs a nearest-neighbor search and returns up to topK raw
	// results with cosine distances.
	Query(ctx context.Context, query string, topK int) ([]SearchResult, error)
}

// LLMClient defines the contract for generating the assistant's reply from
// a prompt. Treated as a black box.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResponseCache defines the interface for caching chat responses.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*ChatResponse, error)
	Set(ctx context.Context, key string, value *ChatResponse, ttl time.Duration) error
}
