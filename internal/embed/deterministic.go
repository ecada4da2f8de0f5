// Package embed provides the embedding chain used by indexing and search:
// a real provider when a credential is configured, degrading to a
// deterministic pseudo-embedding generator otherwise.
package embed

import (
	"context"
	"math"

	"github.com/forumlab/forumsearch/internal/domain"
)

// DeterministicEmbedder produces a fixed-dimension pseudo-embedding from a
// rolling hash of the input text. Identical input always yields an identical
// vector, which keeps fallback-mode similarity stable and tests reproducible.
// The vectors carry no semantic meaning.
type DeterministicEmbedder struct {
	dims int
}

// NewDeterministic creates a deterministic embedder with the given dimension.
func NewDeterministic(dims int) *DeterministicEmbedder {
	if dims <= 0 {
		dims = domain.DefaultDimensions
	}
	return &DeterministicEmbedder{dims: dims}
}

// Dimensions returns the vector dimension produced by this embedder.
func (e *DeterministicEmbedder) Dimensions() int { return e.dims }

// Embed implements domain.Embedder. It never fails.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	h := textHash(text)
	vec := make([]float32, e.dims)
	for i := range vec {
		// Pseudo-random but deterministic value in [0, 1].
		vec[i] = float32(math.Sin(float64(h)+float64(i))/2 + 0.5)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// textHash computes a 32-bit rolling polynomial hash with wraparound,
// h = 31*h + char for each character.
func textHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return h
}
