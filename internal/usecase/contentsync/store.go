// Package contentsync decorates a content store so every write is mirrored
// into the vector index. Index failures are logged and absorbed: the
// relational write is the source of truth and must never be rolled back or
// failed because the index was unreachable. Deletes capture the entity type
// before the row disappears.
package contentsync

import (
	"context"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
)

// Store wraps a ContentStore with index mirroring.
type Store struct {
	inner   ContentStore
	indexer Indexer
	logger  *zap.Logger
}

// New creates the mirroring decorator.
func New(inner ContentStore, indexer Indexer, logger *zap.Logger) *Store {
	return &Store{inner: inner, indexer: indexer, logger: logger}
}

// CreatePost writes the post and indexes it with its joins.
func (s *Store) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	created, err := s.inner.CreatePost(ctx, p)
	if err != nil {
		return domain.Post{}, err
	}
	s.syncPost(ctx, created.ID)
	return created, nil
}

// UpdatePost writes the post and re-indexes it.
func (s *Store) UpdatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	updated, err := s.inner.UpdatePost(ctx, p)
	if err != nil {
		return domain.Post{}, err
	}
	s.syncPost(ctx, updated.ID)
	return updated, nil
}

// DeletePost removes the post and its index document.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if err := s.inner.DeletePost(ctx, id); err != nil {
		return err
	}
	s.dropDocument(ctx, id, domain.DocTypePost)
	return nil
}

// GetPost passes through to the wrapped store.
func (s *Store) GetPost(ctx context.Context, id string) (domain.PostWithRelations, error) {
	return s.inner.GetPost(ctx, id)
}

// CreateComment writes the comment and indexes it with its joins.
func (s *Store) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	created, err := s.inner.CreateComment(ctx, c)
	if err != nil {
		return domain.Comment{}, err
	}
	s.syncComment(ctx, created.ID)
	return created, nil
}

// UpdateComment writes the comment and re-indexes it.
func (s *Store) UpdateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	updated, err := s.inner.UpdateComment(ctx, c)
	if err != nil {
		return domain.Comment{}, err
	}
	s.syncComment(ctx, updated.ID)
	return updated, nil
}

// DeleteComment removes the comment and its index document.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	if err := s.inner.DeleteComment(ctx, id); err != nil {
		return err
	}
	s.dropDocument(ctx, id, domain.DocTypeComment)
	return nil
}

// GetComment passes through to the wrapped store.
func (s *Store) GetComment(ctx context.Context, id string) (domain.CommentWithRelations, error) {
	return s.inner.GetComment(ctx, id)
}

// CreateCategory writes the category and indexes it.
func (s *Store) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	created, err := s.inner.CreateCategory(ctx, c)
	if err != nil {
		return domain.Category{}, err
	}
	s.syncCategory(ctx, created)
	return created, nil
}

// UpdateCategory writes the category and re-indexes it.
func (s *Store) UpdateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	updated, err := s.inner.UpdateCategory(ctx, c)
	if err != nil {
		return domain.Category{}, err
	}
	s.syncCategory(ctx, updated)
	return updated, nil
}

// DeleteCategory removes the category and its index document.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.dropDocument(ctx, id, domain.DocTypeCategory)
	return nil
}

// GetCategory passes through to the wrapped store.
func (s *Store) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	return s.inner.GetCategory(ctx, id)
}

// syncPost re-fetches the post with joins and indexes it. The re-fetch
// picks up the denormalized author and category fields the payload needs.
func (s *Store) syncPost(ctx context.Context, id string) {
	post, err := s.inner.GetPost(ctx, id)
	if err != nil {
		s.logger.Warn("Post sync fetch failed", zap.String("id", id), zap.Error(err))
		return
	}
	if err := s.indexer.IndexPost(ctx, post); err != nil {
		s.logger.Warn("Post index sync failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Store) syncComment(ctx context.Context, id string) {
	comment, err := s.inner.GetComment(ctx, id)
	if err != nil {
		s.logger.Warn("Comment sync fetch failed", zap.String("id", id), zap.Error(err))
		return
	}
	if err := s.indexer.IndexComment(ctx, comment); err != nil {
		s.logger.Warn("Comment index sync failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Store) syncCategory(ctx context.Context, category domain.Category) {
	if err := s.indexer.IndexCategory(ctx, category); err != nil {
		s.logger.Warn("Category index sync failed", zap.String("id", category.ID), zap.Error(err))
	}
}

func (s *Store) dropDocument(ctx context.Context, id string, docType domain.DocType) {
	if err := s.indexer.DeleteDocument(ctx, id, docType); err != nil {
		s.logger.Warn("Index delete sync failed",
			zap.String("id", id),
			zap.String("type", string(docType)),
			zap.Error(err),
		)
	}
}
