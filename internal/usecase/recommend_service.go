package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// User-facing fallback copy. The chat flow must always answer with one of
// these instead of surfacing an internal failure.
const (
	fallbackNoResults  = "I couldn't find anything matching that in the catalog yet. Want to try describing it differently?"
	fallbackDegraded   = "Sorry, I'm having trouble reaching the product search right now. Please try again in a moment."
	promptInstructions = `You are an AI shopping assistant. Recommend ONLY from the retrieved products below.

USER QUERY:
%s

RETRIEVED PRODUCTS:
%s
RULES:
1. Recommend only from these products.
2. Show 2-3 options max.
3. Keep responses short and helpful.
4. Focus on the most relevant match for what the user asked.

Now give the final recommendation.`
)

// RecommendServiceConfig holds configuration for the recommend service
type RecommendServiceConfig struct {
	TopK               int
	RelevanceThreshold float64
	MaxReturned        int
	CacheTTL           time.Duration
}

// RecommendService answers natural-language shopping queries: retrieve
// nearest neighbors from the index, filter and rank them, then ground the
// LLM reply in the surviving candidates.
type RecommendService struct {
	index    domain.IndexClient
	llm      domain.LLMClient
	cache    domain.ResponseCache
	ranker   *Ranker
	logger   *slog.Logger
	topK     int
	cacheTTL time.Duration
}

// NewRecommendService creates a recommend service with dependencies. cache
// may be nil to disable response caching.
func NewRecommendService(
	index domain.IndexClient,
	llm domain.LLMClient,
	cache domain.ResponseCache,
	logger *slog.Logger,
	config RecommendServiceConfig,
) *RecommendService {
	topK := config.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RecommendService{
		index: index,
		llm:   llm,
		cache: cache,
		ranker: NewRanker(RankerConfig{
			RelevanceThreshold: config.RelevanceThreshold,
			MaxReturned:        config.MaxReturned,
		}),
		logger:   logger.With("component", "recommend"),
		topK:     topK,
		cacheTTL: cacheTTL,
	}
}

// Recommend runs the full retrieve-rank-generate flow for one query.
// Failures of the index or the LLM degrade to an apologetic reply with an
// empty product list; they are never surfaced as errors to the end user.
func (s *RecommendService) Recommend(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(request.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	topK := request.TopK
	if topK <= 0 {
		topK = s.topK
	}

	cacheKey := s.cacheKey(request.Query, topK)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			return cached, nil
		}
	}

	results, err := s.index.Query(ctx, request.Query, topK)
	if err != nil {
		s.logger.Error("index query failed", "error", err)
		return &domain.ChatResponse{Reply: fallbackDegraded, Products: []domain.RetrievalCandidate{}}, nil
	}

	candidates, err := s.ranker.Rank(results)
	if err != nil {
		if errors.Is(err, domain.ErrNoRelevantResults) {
			return &domain.ChatResponse{Reply: fallbackNoResults, Products: []domain.RetrievalCandidate{}}, nil
		}
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, buildPrompt(request.Query, candidates))
	if err != nil {
		s.logger.Error("generation failed", "error", err)
		return &domain.ChatResponse{Reply: fallbackDegraded, Products: []domain.RetrievalCandidate{}}, nil
	}

	response := &domain.ChatResponse{Reply: reply, Products: candidates}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response, s.cacheTTL); err != nil {
			s.logger.Warn("response cache write failed", "error", err)
		}
	}

	return response, nil
}

// buildPrompt renders the retrieved candidates into the recommendation
// prompt, one block per product with its relevance score.
func buildPrompt(query string, candidates []domain.RetrievalCandidate) string {
	var blocks strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&blocks,
			"Product:\nTitle: %s\nCategory: %s\nDescription: %s\nURL: %s\nImage: %s\nRelevance: %.2f\n\n",
			c.Metadata.Title,
			c.Metadata.Category,
			c.Metadata.Description,
			c.Metadata.URL,
			c.Metadata.Image,
			c.Similarity)
	}

	return fmt.Sprintf(promptInstructions, query, blocks.String())
}

// cacheKey normalizes the query for use as a cache key.
// Format: "chat:{topK}:{normalized query}"
func (s *RecommendService) cacheKey(query string, topK int) string {
	normalized := strings.ToLower(query)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return fmt.Sprintf("chat:%d:%s", topK, strings.TrimSpace(normalized))
}
