package contentsync

import (
	"context"

	"github.com/forumlab/forumsearch/internal/domain"
)

// ContentStore is the mutation and lookup surface of the relational
// content store that sync wraps.
type ContentStore interface {
	CreatePost(ctx context.Context, p domain.Post) (domain.Post, error)
	UpdatePost(ctx context.Context, p domain.Post) (domain.Post, error)
	DeletePost(ctx context.Context, id string) error
	GetPost(ctx context.Context, id string) (domain.PostWithRelations, error)

	CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	UpdateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	GetComment(ctx context.Context, id string) (domain.CommentWithRelations, error)

	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	GetCategory(ctx context.Context, id string) (domain.Category, error)
}

// Indexer mirrors content into the vector index.
type Indexer interface {
	IndexPost(ctx context.Context, post domain.PostWithRelations) error
	IndexComment(ctx context.Context, comment domain.CommentWithRelations) error
	IndexCategory(ctx context.Context, category domain.Category) error
	DeleteDocument(ctx context.Context, id string, docType domain.DocType) error
}
