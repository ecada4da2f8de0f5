// Package search implements cross-collection retrieval. The semantic path
// embeds the query once and fans out over the post, comment, and category
// collections in parallel, then merges by similarity. Any failure on the
// semantic path drops the whole request to the keyword fallback, so a
// search request never fails outright.
package search

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
	"github.com/forumlab/forumsearch/internal/metrics"
)

// DefaultLimit caps results when the caller does not specify one.
const DefaultLimit = 10

// Service answers search queries over the forum corpus.
type Service struct {
	vectors  VectorSearcher
	content  ContentFinder
	embed    Embedder
	semantic bool
	logger   *zap.Logger
}

// New creates a search service. When semantic is false every query goes
// straight to the keyword path.
func New(vectors VectorSearcher, content ContentFinder, embed Embedder, semantic bool, logger *zap.Logger) *Service {
	return &Service{
		vectors:  vectors,
		content:  content,
		embed:    embed,
		semantic: semantic,
		logger:   logger,
	}
}

// Search returns at most limit results for the query, best match first on
// the semantic path. It never returns an error; every failure mode falls
// back to keyword matching, and a keyword failure yields an empty slice.
func (s *Service) Search(ctx context.Context, query string, limit int) []domain.SearchResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if !s.semantic {
		return s.keywordSearch(ctx, query, limit)
	}

	results, err := s.semanticSearch(ctx, query, limit)
	if err != nil {
		s.logger.Warn("Semantic search failed, falling back to keyword search",
			zap.String("query", query),
			zap.Error(err),
		)
		return s.keywordSearch(ctx, query, limit)
	}
	return results
}

// semanticSearch embeds once and queries every collection with the same
// vector and limit. All collections must answer; a single failure fails
// the whole pass rather than returning a silently partial ranking.
func (s *Service) semanticSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	metrics.SearchRequestsTotal.WithLabelValues("semantic").Inc()

	embedded, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	collections := domain.SearchCollections
	perCollection := make([][]domain.SearchResult, len(collections))
	errs := make([]error, len(collections))

	var wg sync.WaitGroup
	for i, collection := range collections {
		wg.Add(1)
		go func(i int, collection string) {
			defer wg.Done()
			perCollection[i], errs[i] = s.vectors.Search(ctx, collection, embedded.Embedding, limit)
		}(i, collection)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			s.logger.Warn("Collection search failed",
				zap.String("collection", collections[i]),
				zap.Error(err),
			)
			return nil, err
		}
	}

	merged := make([]domain.SearchResult, 0, limit*len(collections))
	for _, results := range perCollection {
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	s.logger.Debug("Semantic search complete",
		zap.String("query", query),
		zap.Int("results", len(merged)),
	)
	return merged, nil
}
