package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
	"github.com/forumlab/forumsearch/internal/metrics"
)

// Fixed relevance scores for keyword matches. Substring matching carries
// no similarity signal, so each entity type gets a flat score that ranks
// posts over comments over categories.
const (
	keywordScorePost     = 0.9
	keywordScoreComment  = 0.8
	keywordScoreCategory = 0.7
)

// keywordSearch matches the query as a case-insensitive substring against
// the content store. Results keep entity-type grouping: posts, then
// comments, then categories, truncated to limit. Lookup failures are
// absorbed per entity type; the worst case is an empty result set.
func (s *Service) keywordSearch(ctx context.Context, query string, limit int) []domain.SearchResult {
	metrics.SearchRequestsTotal.WithLabelValues("keyword").Inc()

	results := make([]domain.SearchResult, 0, limit)

	posts, err := s.content.SearchPosts(ctx, query, limit)
	if err != nil {
		s.logger.Warn("Keyword post lookup failed", zap.Error(err))
	}
	for _, p := range posts {
		results = append(results, domain.SearchResult{
			ID:      p.ID,
			Score:   keywordScorePost,
			Payload: p.IndexPayload(),
		})
	}

	comments, err := s.content.SearchComments(ctx, query, limit)
	if err != nil {
		s.logger.Warn("Keyword comment lookup failed", zap.Error(err))
	}
	for _, c := range comments {
		results = append(results, domain.SearchResult{
			ID:      c.ID,
			Score:   keywordScoreComment,
			Payload: c.IndexPayload(),
		})
	}

	categories, err := s.content.SearchCategories(ctx, query, limit)
	if err != nil {
		s.logger.Warn("Keyword category lookup failed", zap.Error(err))
	}
	for _, c := range categories {
		results = append(results, domain.SearchResult{
			ID:      c.ID,
			Score:   keywordScoreCategory,
			Payload: c.IndexPayload(),
		})
	}

	if len(results) > limit {
		results = results[:limit]
	}

	s.logger.Debug("Keyword search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results
}
