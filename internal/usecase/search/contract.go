package search

import (
	"context"

	"github.com/forumlab/forumsearch/internal/domain"
)

// VectorSearcher is the slice of the vector database this use case needs.
type VectorSearcher interface {
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]domain.SearchResult, error)
}

// Embedder turns the query into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ContentFinder runs substring matching against the relational content
// store. It backs the keyword fallback path.
type ContentFinder interface {
	SearchPosts(ctx context.Context, query string, limit int) ([]domain.PostWithRelations, error)
	SearchComments(ctx context.Context, query string, limit int) ([]domain.CommentWithRelations, error)
	SearchCategories(ctx context.Context, query string, limit int) ([]domain.Category, error)
}
