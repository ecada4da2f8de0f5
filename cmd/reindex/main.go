// Command reindex bootstraps the vector collections and indexes the entire
// content corpus: categories first, then posts, then comments. A failed
// bootstrap aborts the run; individual item failures are logged and skipped.
package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/config"
	dbRedis "github.com/forumlab/forumsearch/internal/db/redis"
	"github.com/forumlab/forumsearch/internal/domain"
	"github.com/forumlab/forumsearch/internal/embed"
	logpkg "github.com/forumlab/forumsearch/internal/logger"
	"github.com/forumlab/forumsearch/internal/metrics"
	"github.com/forumlab/forumsearch/internal/repository/content"
	"github.com/forumlab/forumsearch/internal/repository/embcache"
	openaiEmb "github.com/forumlab/forumsearch/internal/transport/openai"
	indexeruc "github.com/forumlab/forumsearch/internal/usecase/indexer"
	qdrantStore "github.com/forumlab/forumsearch/internal/vectorstore/qdrant"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIndexMetrics()

	if !cfg.ProviderConfigured() {
		logger.Warn("No embedding credential configured, nothing to reindex")
		return
	}

	var cache *dbRedis.Store
	if cfg.CacheEnabled() {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			logger.Warn("Embedding cache unavailable", zap.Error(err))
		} else {
			defer cache.Close()
		}
	}

	vectors, err := qdrantStore.NewClient(qdrantStore.Config{
		Host:           cfg.Qdrant.Host,
		Port:           cfg.Qdrant.Port,
		UseTLS:         cfg.Qdrant.UseTLS,
		APIKey:         cfg.Qdrant.APIKey,
		Dimensions:     cfg.Embedding.Dimensions,
		RequestTimeout: time.Duration(cfg.Qdrant.RequestTimeoutSec) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to qdrant", zap.Error(err))
	}
	defer func() { _ = vectors.Close() }()

	idx := indexeruc.New(vectors, buildEmbedder(cfg, cache, logger), true, cfg.Embedding.Dimensions, logger)

	ctx := context.Background()
	if err := idx.InitCollections(ctx); err != nil {
		logger.Error("Collection bootstrap failed", zap.Error(err))
		os.Exit(1)
	}

	store := content.NewMemoryStore()
	if err := content.Seed(ctx, store); err != nil {
		logger.Error("Failed to load content", zap.Error(err))
		os.Exit(1)
	}

	indexed, failed := 0, 0

	categories, err := store.ListCategories(ctx)
	if err != nil {
		logger.Error("Failed to list categories", zap.Error(err))
		os.Exit(1)
	}
	for _, c := range categories {
		if err := idx.IndexCategory(ctx, c); err != nil {
			logger.Error("Failed to index category", zap.String("id", c.ID), zap.Error(err))
			failed++
			continue
		}
		logger.Info("Indexed category", zap.String("id", c.ID), zap.String("name", c.Name))
		indexed++
	}

	posts, err := store.ListPosts(ctx)
	if err != nil {
		logger.Error("Failed to list posts", zap.Error(err))
		os.Exit(1)
	}
	for _, p := range posts {
		if err := idx.IndexPost(ctx, p); err != nil {
			logger.Error("Failed to index post", zap.String("id", p.ID), zap.Error(err))
			failed++
			continue
		}
		logger.Info("Indexed post", zap.String("id", p.ID), zap.String("title", p.Title))
		indexed++
	}

	comments, err := store.ListComments(ctx)
	if err != nil {
		logger.Error("Failed to list comments", zap.Error(err))
		os.Exit(1)
	}
	for _, c := range comments {
		if err := idx.IndexComment(ctx, c); err != nil {
			logger.Error("Failed to index comment", zap.String("id", c.ID), zap.Error(err))
			failed++
			continue
		}
		logger.Info("Indexed comment", zap.String("id", c.ID))
		indexed++
	}

	logger.Info("Reindex complete",
		zap.Int("indexed", indexed),
		zap.Int("failed", failed),
	)
}

// buildEmbedder assembles the chain: OpenAI -> Cached -> Degrading. The cache
// matters most here; reindexing unchanged content should not re-bill the
// provider. cache may be nil.
func buildEmbedder(cfg config.Config, cache *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	var provider domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Logger:  logger,
	})

	if cache != nil {
		ttl := time.Duration(cfg.Redis.CacheTTLDays) * 24 * time.Hour
		provider = embcache.New(provider, cache, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	return embed.NewDegrading(provider, embed.NewDeterministic(cfg.Embedding.Dimensions), logger)
}
