// Package chi exposes the search pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
	logpkg "github.com/forumlab/forumsearch/internal/logger"
)

// Searcher answers ranked queries over the forum corpus.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []domain.SearchResult
}

// Pinger reports vector store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	vectors       Pinger
	embeddingMode string
	logger        *zap.Logger
}

// NewServer creates an HTTP API server. vectors may be nil when indexing is
// disabled; embeddingMode names the active embedder for the health report.
func NewServer(search Searcher, vectors Pinger, embeddingMode string, logger *zap.Logger) *Server {
	return &Server{
		search:        search,
		vectors:       vectors,
		embeddingMode: embeddingMode,
		logger:        logger,
	}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/api/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// handleSearch handles GET /api/search?q=...&limit=...
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results := s.search.Search(r.Context(), query, limit)

	logpkg.FromContext(r.Context()).Debug("Search served",
		zap.String("query", query),
		zap.Int("count", len(results)),
	)

	items := make([]map[string]any, len(results))
	for i, res := range results {
		items[i] = res.Flatten()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": items,
		"meta": map[string]any{
			"query": query,
			"count": len(items),
		},
	})
}

// handleHealth handles GET /healthz. The vector store check degrades the
// status; a disabled store reports as such without failing health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := map[string]string{
		"embedding": s.embeddingMode,
	}

	switch {
	case s.vectors == nil:
		checks["vectorstore"] = "disabled"
	default:
		if err := s.vectors.Ping(r.Context()); err != nil {
			s.logger.Warn("Vector store health check failed", zap.Error(err))
			checks["vectorstore"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			checks["vectorstore"] = "ok"
		}
	}

	body := map[string]any{
		"status": "ok",
		"checks": checks,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
