package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// cacheItem is one cached chat response with its expiration
type cacheItem struct {
	value      domain.ChatResponse
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory chat-response cache with TTL.
// Identical queries within the TTL skip the index query and LLM call, which
// matters because both sit behind strict downstream rate limits.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates the cache and starts its background cleanup.
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached response, or ErrCacheMiss.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.ChatResponse, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	// Copy so callers cannot mutate the cached entry
	value := item.value
	value.Products = append([]domain.RetrievalCandidate(nil), item.value.Products...)
	return &value, nil
}

// Set stores a response with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value *domain.ChatResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:      *value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// cleanupExpired removes expired entries every 10 minutes
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
