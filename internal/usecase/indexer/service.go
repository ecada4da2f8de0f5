// Package indexer keeps the vector database in step with forum content.
// Each entity type is projected to embedding text and a payload, embedded,
// and upserted into its collection. When indexing is disabled every write
// operation degrades to a successful no-op so content writes never depend
// on the vector pipeline being available.
package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
	"github.com/forumlab/forumsearch/internal/metrics"
)

// Service implements document indexing against a vector store.
type Service struct {
	store   VectorStore
	embed   Embedder
	enabled bool
	dims    int
	logger  *zap.Logger
}

// New creates an indexing service. When enabled is false all indexing
// operations succeed without touching the store.
func New(store VectorStore, embed Embedder, enabled bool, dims int, logger *zap.Logger) *Service {
	if dims <= 0 {
		dims = domain.DefaultDimensions
	}
	return &Service{
		store:   store,
		embed:   embed,
		enabled: enabled,
		dims:    dims,
		logger:  logger,
	}
}

// Enabled reports whether indexing writes reach the vector store.
func (s *Service) Enabled() bool {
	return s.enabled
}

// InitCollections creates every collection the service writes to.
// Idempotent; existing collections are left as they are.
func (s *Service) InitCollections(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info("Indexing disabled, skipping collection init")
		return nil
	}

	for _, name := range domain.AllCollections {
		if err := s.store.EnsureCollection(ctx, name, s.dims); err != nil {
			return fmt.Errorf("init collection %s: %w", name, err)
		}
	}

	s.logger.Info("Collections initialized", zap.Int("count", len(domain.AllCollections)))
	return nil
}

// IndexPost embeds and upserts a post with its author and category context.
func (s *Service) IndexPost(ctx context.Context, post domain.PostWithRelations) error {
	return s.index(ctx, domain.DocTypePost, post.ID, post.EmbedText(), post.IndexPayload())
}

// IndexComment embeds and upserts a comment with its author and parent post context.
func (s *Service) IndexComment(ctx context.Context, comment domain.CommentWithRelations) error {
	return s.index(ctx, domain.DocTypeComment, comment.ID, comment.EmbedText(), comment.IndexPayload())
}

// IndexCategory embeds and upserts a category.
func (s *Service) IndexCategory(ctx context.Context, category domain.Category) error {
	return s.index(ctx, domain.DocTypeCategory, category.ID, category.EmbedText(), category.IndexPayload())
}

// DeleteDocument removes a document of the given type from its collection.
// The type is validated before the enabled check so callers learn about bad
// input even when indexing is off.
func (s *Service) DeleteDocument(ctx context.Context, id string, docType domain.DocType) error {
	collection, err := domain.CollectionFor(docType)
	if err != nil {
		return err
	}

	if !s.enabled {
		metrics.IndexOperationsTotal.WithLabelValues(string(docType), "delete", "skipped").Inc()
		return nil
	}

	if err := s.store.Delete(ctx, collection, id); err != nil {
		metrics.IndexOperationsTotal.WithLabelValues(string(docType), "delete", "error").Inc()
		s.logger.Error("Failed to delete document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	metrics.IndexOperationsTotal.WithLabelValues(string(docType), "delete", "success").Inc()
	s.logger.Debug("Deleted document",
		zap.String("collection", collection),
		zap.String("id", id),
	)
	return nil
}

func (s *Service) index(ctx context.Context, docType domain.DocType, id, text string, payload map[string]any) error {
	collection, err := domain.CollectionFor(docType)
	if err != nil {
		return err
	}

	if !s.enabled {
		metrics.IndexOperationsTotal.WithLabelValues(string(docType), "upsert", "skipped").Inc()
		return nil
	}

	result, err := s.embed.Embed(ctx, text)
	if err != nil {
		metrics.IndexOperationsTotal.WithLabelValues(string(docType), "upsert", "error").Inc()
		s.logger.Error("Failed to embed document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return fmt.Errorf("embed document %s: %w", id, err)
	}

	doc := domain.Document{
		ID:      id,
		Vector:  result.Embedding,
		Payload: payload,
	}
	if err := s.store.Upsert(ctx, collection, doc); err != nil {
		metrics.IndexOperationsTotal.WithLabelValues(string(docType), "upsert", "error").Inc()
		s.logger.Error("Failed to upsert document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return fmt.Errorf("upsert document %s: %w", id, err)
	}

	metrics.IndexOperationsTotal.WithLabelValues(string(docType), "upsert", "success").Inc()
	s.logger.Debug("Indexed document",
		zap.String("collection", collection),
		zap.String("id", id),
		zap.Int("dims", len(result.Embedding)),
	)
	return nil
}
