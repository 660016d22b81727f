package usecase

import (
	"errors"
	"testing"

	"github.com/shopsense/backend/internal/domain"
)

func resultsWithDistances(distances ...float64) []domain.SearchResult {
	results := make([]domain.SearchResult, len(distances))
	for i, d := range distances {
		results[i] = domain.SearchResult{
			Metadata: domain.CandidateMetadata{Title: "product"},
			Distance: d,
		}
	}
	return results
}

func TestRank(t *testing.T) {
	ranker := NewRanker(RankerConfig{RelevanceThreshold: 0.30, MaxReturned: 3})

	t.Run("filters below threshold and orders by similarity", func(t *testing.T) {
		candidates, err := ranker.Rank(resultsWithDistances(0.1, 0.5, 0.95))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("len = %d, want 2", len(candidates))
		}
		if candidates[0].Similarity != 0.9 {
			t.Errorf("candidates[0].Similarity = %v, want 0.9", candidates[0].Similarity)
		}
		if candidates[1].Similarity != 0.5 {
			t.Errorf("candidates[1].Similarity = %v, want 0.5", candidates[1].Similarity)
		}
	})

	t.Run("sorts out-of-order input descending", func(t *testing.T) {
		candidates, err := ranker.Rank(resultsWithDistances(0.6, 0.2, 0.4))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []float64{0.8, 0.6, 0.4}
		for i, w := range want {
			got := candidates[i].Similarity
			if got < w-1e-9 || got > w+1e-9 {
				t.Errorf("candidates[%d].Similarity = %v, want %v", i, got, w)
			}
		}
	})

	t.Run("truncates to max returned", func(t *testing.T) {
		candidates, err := ranker.Rank(resultsWithDistances(0.1, 0.2, 0.3, 0.4, 0.5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 3 {
			t.Errorf("len = %d, want 3", len(candidates))
		}
	})

	t.Run("signals no relevant results distinctly", func(t *testing.T) {
		_, err := ranker.Rank(resultsWithDistances(0.75, 0.85, 0.99))
		if !errors.Is(err, domain.ErrNoRelevantResults) {
			t.Errorf("error = %v, want ErrNoRelevantResults", err)
		}
	})

	t.Run("empty input signals no relevant results", func(t *testing.T) {
		_, err := ranker.Rank(nil)
		if !errors.Is(err, domain.ErrNoRelevantResults) {
			t.Errorf("error = %v, want ErrNoRelevantResults", err)
		}
	})

	t.Run("keeps candidates at the threshold boundary", func(t *testing.T) {
		candidates, err := ranker.Rank(resultsWithDistances(0.70))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 {
			t.Errorf("len = %d, want 1 (similarity exactly at threshold survives)", len(candidates))
		}
	})
}

func TestNewRanker(t *testing.T) {
	t.Run("applies defaults for zero values", func(t *testing.T) {
		ranker := NewRanker(RankerConfig{})
		if ranker.relevanceThreshold != 0.30 {
			t.Errorf("relevanceThreshold = %v, want 0.30", ranker.relevanceThreshold)
		}
		if ranker.maxReturned != 3 {
			t.Errorf("maxReturned = %d, want 3", ranker.maxReturned)
		}
	})
}
