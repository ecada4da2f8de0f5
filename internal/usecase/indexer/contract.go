package indexer

import (
	"context"

	"github.com/forumlab/forumsearch/internal/domain"
)

// VectorStore is the slice of the vector database this use case needs.
type VectorStore interface {
	EnsureCollection(ctx context.Context, name string, dims int) error
	Upsert(ctx context.Context, collection string, doc domain.Document) error
	Delete(ctx context.Context, collection, id string) error
}

// Embedder turns document text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
