package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product does not exist in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrSourceFetch is returned when a listing page cannot be fetched from the
	// source API; it aborts the remaining pages for that site only
	ErrSourceFetch = errors.New("source listing fetch failed")

	// ErrSourceParse is returned when an individual raw item is malformed;
	// the item is skipped and the page continues
	ErrSourceParse = errors.New("source item parse failed")

	// ErrPersistence is returned when a catalog store write fails
	ErrPersistence = errors.New("catalog store write failed")

	// ErrPropagation is returned when the index adapter rejects an upsert or
	// is unreachable; the record stays stale and is retried next cycle
	ErrPropagation = errors.New("index propagation failed")

	// ErrNoRelevantResults signals that no retrieved candidate passed the
	// relevance threshold. Not a system failure: callers must render a
	// fallback message instead of fabricating a recommendation.
	ErrNoRelevantResults = errors.New("no relevant results above threshold")

	// ErrIndexUnavailable is returned when the search index cannot be queried
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrLLMUnavailable is returned when the language model backend fails
	ErrLLMUnavailable = errors.New("language model unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
