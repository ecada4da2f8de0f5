package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/config"
	dbRedis "github.com/forumlab/forumsearch/internal/db/redis"
	"github.com/forumlab/forumsearch/internal/domain"
	"github.com/forumlab/forumsearch/internal/embed"
	logpkg "github.com/forumlab/forumsearch/internal/logger"
	"github.com/forumlab/forumsearch/internal/metrics"
	"github.com/forumlab/forumsearch/internal/repository/content"
	"github.com/forumlab/forumsearch/internal/repository/embcache"
	chiTransport "github.com/forumlab/forumsearch/internal/transport/chi"
	openaiEmb "github.com/forumlab/forumsearch/internal/transport/openai"
	qdrantStore "github.com/forumlab/forumsearch/internal/vectorstore/qdrant"
	"github.com/forumlab/forumsearch/internal/usecase/contentsync"
	indexeruc "github.com/forumlab/forumsearch/internal/usecase/indexer"
	searchuc "github.com/forumlab/forumsearch/internal/usecase/search"
	"github.com/forumlab/forumsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting forumsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("provider_configured", cfg.ProviderConfigured()),
		zap.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIndexMetrics()

	var cache *dbRedis.Store
	if cfg.ProviderConfigured() && cfg.CacheEnabled() {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			logger.Warn("Embedding cache unavailable", zap.Error(err))
		} else {
			defer cache.Close()
			logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Redis.Addrs))
		}
	}

	embedder, embeddingMode := buildEmbedder(cfg, cache, logger)

	// The vector store and indexing are only wired when a real provider
	// credential is present. Without it the service stays up on the
	// keyword fallback path.
	semantic := cfg.ProviderConfigured()

	var vectors *qdrantStore.Client
	if semantic {
		vectors, err = qdrantStore.NewClient(qdrantStore.Config{
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
	}

	indexSvc := newIndexer(vectors, embedder, semantic, cfg.Embedding.Dimensions, logger)

	ctx := context.Background()
	if err := indexSvc.InitCollections(ctx); err != nil {
		// Startup survives a failed bootstrap; collections are re-ensured
		// by the reindex job and upserts surface the real error.
		logger.Warn("Collection bootstrap failed", zap.Error(err))
	}

	// Content store wrapped so every write is mirrored into the index. The
	// keyword fallback reads the same backing store the decorator writes.
	memStore := content.NewMemoryStore()
	contentStore := contentsync.New(memStore, indexSvc, logger)

	if env == "local" {
		if err := seedLocalContent(ctx, memStore, contentStore); err != nil {
			logger.Warn("Failed to seed local content", zap.Error(err))
		}
	}

	searchSvc := searchuc.New(searchVectors(vectors), memStore, embedder, semantic, logger)

	server := chiTransport.NewServer(searchSvc, healthPinger(vectors), embeddingMode, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the chain: OpenAI -> Cached -> Degrading, or the
// deterministic fallback alone when no credential is configured. cache may
// be nil.
func buildEmbedder(cfg config.Config, cache *dbRedis.Store, logger *zap.Logger) (domain.Embedder, string) {
	fallback := embed.NewDeterministic(cfg.Embedding.Dimensions)

	if !cfg.ProviderConfigured() {
		logger.Info("No embedding credential, using deterministic embeddings")
		return embed.NewDegrading(nil, fallback, logger), "deterministic"
	}

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

	return embed.NewDegrading(provider, fallback, logger), "provider"
}

// newIndexer handles the nil-store case without wrapping a typed nil in the
// VectorStore interface.
func newIndexer(vectors *qdrantStore.Client, embedder domain.Embedder, enabled bool, dims int, logger *zap.Logger) *indexeruc.Service {
	var store indexeruc.VectorStore
	if vectors != nil {
		store = vectors
	}
	return indexeruc.New(store, embedder, enabled, dims, logger)
}

func searchVectors(vectors *qdrantStore.Client) searchuc.VectorSearcher {
	if vectors == nil {
		return nil
	}
	return vectors
}

func healthPinger(vectors *qdrantStore.Client) chiTransport.Pinger {
	if vectors == nil {
		return nil
	}
	return vectors
}

// seedLocalContent loads a small fixture through the sync decorator so local
// runs have searchable content in both the store and the index.
func seedLocalContent(ctx context.Context, users *content.MemoryStore, store *contentsync.Store) error {
	user, err := users.CreateUser(ctx, domain.User{Name: "Ada Dev", Username: "ada"})
	if err != nil {
		return err
	}

	cat, err := store.CreateCategory(ctx, domain.Category{
		Name:        "Programming",
		Description: "Languages, tools, and code review",
		Slug:        "programming",
	})
	if err != nil {
		return err
	}

	post, err := store.CreatePost(ctx, domain.Post{
		Title:      "Go concurrency patterns",
		Content:    "Worker pools, fan-out, and when to reach for channels.",
		UserID:     user.ID,
		CategoryID: cat.ID,
	})
	if err != nil {
		return err
	}

	_, err = store.CreateComment(ctx, domain.Comment{
		Content: "sync.WaitGroup covers most of these without extra deps.",
		UserID:  user.ID,
		PostID:  post.ID,
	})
	return err
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
