package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

func testResponse(reply string) *domain.ChatResponse {
	return &domain.ChatResponse{
		Reply: reply,
		Products: []domain.RetrievalCandidate{
			{Metadata: domain.CandidateMetadata{Title: "Hair Oil"}, Similarity: 0.9},
		},
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("get after set returns the value", func(t *testing.T) {
		c := NewMemoryCache()
		if err := c.Set(ctx, "k", testResponse("hi"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}

		got, err := c.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Reply != "hi" {
			t.Errorf("Reply = %q, want \"hi\"", got.Reply)
		}
		if len(got.Products) != 1 {
			t.Errorf("Products = %d, want 1", len(got.Products))
		}
	})

	t.Run("missing key is a cache miss", func(t *testing.T) {
		c := NewMemoryCache()
		if _, err := c.Get(ctx, "nope"); err != domain.ErrCacheMiss {
			t.Errorf("err = %v, want ErrCacheMiss", err)
		}
	})

	t.Run("expired entry is a cache miss", func(t *testing.T) {
		c := NewMemoryCache()
		c.Set(ctx, "k", testResponse("hi"), -time.Second)

		if _, err := c.Get(ctx, "k"); err != domain.ErrCacheMiss {
			t.Errorf("err = %v, want ErrCacheMiss", err)
		}
	})

	t.Run("callers cannot mutate the cached entry", func(t *testing.T) {
		c := NewMemoryCache()
		c.Set(ctx, "k", testResponse("hi"), time.Minute)

		first, _ := c.Get(ctx, "k")
		first.Products[0].Metadata.Title = "mutated"

		second, _ := c.Get(ctx, "k")
		if second.Products[0].Metadata.Title != "Hair Oil" {
			t.Error("cached entry was mutated through a returned copy")
		}
	})

	t.Run("nil value set is a no-op", func(t *testing.T) {
		c := NewMemoryCache()
		if err := c.Set(ctx, "k", nil, time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if _, err := c.Get(ctx, "k"); err != domain.ErrCacheMiss {
			t.Errorf("err = %v, want ErrCacheMiss", err)
		}
	})
}
