package usecase

import (
	"sort"

	"github.com/shopsense/backend/internal/domain"
)

// Default ranking parameters, tuned against the all-mpnet embedding space.
const (
	defaultRelevanceThreshold = 0.30
	defaultMaxReturned        = 3
	defaultTopK               = 5
)

// RankerConfig holds configuration for the retrieval ranker
type RankerConfig struct {
	// RelevanceThreshold is the minimum similarity a candidate needs to be
	// shown to a user.
	RelevanceThreshold float64

	// MaxReturned bounds the candidate list handed to the prompt builder,
	// independent of how many raw results were requested from the index.
	MaxReturned int
}

// Ranker turns raw nearest-neighbor results into a bounded, ordered
// candidate list.
type Ranker struct {
	relevanceThreshold float64
	maxReturned        int
}

// NewRanker creates a ranker, applying defaults for zero values.
func NewRanker(config RankerConfig) *Ranker {
	threshold := config.RelevanceThreshold
	if threshold <= 0 {
		threshold = defaultRelevanceThreshold
	}

	maxReturned := config.MaxReturned
	if maxReturned <= 0 {
		maxReturned = defaultMaxReturned
	}

	return &Ranker{
		relevanceThreshold: threshold,
		maxReturned:        maxReturned,
	}
}

// Rank computes similarity = 1 - distance for each result, discards
// candidates below the relevance threshold, orders the survivors by
// descending similarity and truncates to the configured maximum.
//
// When nothing passes the threshold it returns ErrNoRelevantResults: a
// defined outcome, not a system failure. Callers render a fallback message
// and must never fabricate a recommendation.
func (r *Ranker) Rank(results []domain.SearchResult) ([]domain.RetrievalCandidate, error) {
	candidates := make([]domain.RetrievalCandidate, 0, len(results))
	for _, result := range results {
		similarity := 1 - result.Distance
		if similarity < r.relevanceThreshold {
			continue
		}
		candidates = append(candidates, domain.RetrievalCandidate{
			Metadata:   result.Metadata,
			Similarity: similarity,
		})
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoRelevantResults
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if len(candidates) > r.maxReturned {
		candidates = candidates[:r.maxReturned]
	}

	return candidates, nil
}
