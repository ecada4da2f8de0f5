package embed

import (
	"context"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
	"github.com/forumlab/forumsearch/internal/metrics"
)

// DegradingEmbedder wraps a real provider and absorbs its failures: any
// provider error falls back to the deterministic generator instead of
// propagating. With a nil provider it is purely deterministic.
type DegradingEmbedder struct {
	provider domain.Embedder
	fallback *DeterministicEmbedder
	logger   *zap.Logger
}

// NewDegrading creates the degrading chain. provider may be nil when no
// credential is configured.
func NewDegrading(provider domain.Embedder, fallback *DeterministicEmbedder, logger *zap.Logger) *DegradingEmbedder {
	return &DegradingEmbedder{provider: provider, fallback: fallback, logger: logger}
}

// Embed implements domain.Embedder. It never returns an error: provider
// failures are logged and served from the deterministic fallback.
func (e *DegradingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.provider == nil {
		return e.fallback.Embed(ctx, text)
	}

	result, err := e.provider.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("Embedding provider failed, using deterministic fallback", zap.Error(err))
		metrics.EmbeddingFallbackTotal.Inc()
		return e.fallback.Embed(ctx, text)
	}
	return result, nil
}
