package dashboard

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/recipe"
	"github.com/culinary-data/recipe-crawler/internal/robots"
	"github.com/culinary-data/recipe-crawler/internal/stats"
)

//go:embed index.html
var indexHTML []byte

const defaultTopN = 15

// RecipeSource loads the persisted recipe corpus.
type RecipeSource interface {
	Load() ([]recipe.Recipe, error)
}

// Options configures the dashboard server.
type Options struct {
	RobotsPath     string
	RunStatsPath   string
	RequestTimeout time.Duration
}

// Server wires the HTTP handlers for the dashboard. It is read-only: it never
// writes back into the data files.
type Server struct {
	router chi.Router
	source RecipeSource
	opts   Options
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(source RecipeSource, opts Options, logger *zap.Logger) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	s := &Server{
		source: source,
		opts:   opts,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(opts.RequestTimeout))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", stats.MetricsHandler())
	r.Get("/", s.index)

	r.Route("/api", func(r chi.Router) {
		r.Get("/recipes", s.listRecipes)
		r.Get("/recipes/analytics", s.analytics)
		r.Get("/robots", s.robotsSummary)
		r.Get("/stats", s.runStats)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		s.logger.Error("write index page failed", zap.Error(err))
	}
}

type recipePage struct {
	Recipes  []recipe.Recipe `json:"recipes"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.source.Load()
	if err != nil {
		s.logger.Error("load recipes failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load recipes")
		return
	}

	filter := Filter{
		Query:          r.URL.Query().Get("q"),
		MinIngredients: queryInt(r, "min_ingredients", 0),
		MaxIngredients: queryInt(r, "max_ingredients", 0),
	}
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)

	filtered := FilterRecipes(recipes, filter)
	s.writeJSON(w, http.StatusOK, recipePage{
		Recipes:  Paginate(filtered, page, pageSize),
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.source.Load()
	if err != nil {
		s.logger.Error("load recipes failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load recipes")
		return
	}
	topN := queryInt(r, "top", defaultTopN)
	s.writeJSON(w, http.StatusOK, Analyze(recipes, topN))
}

func (s *Server) robotsSummary(w http.ResponseWriter, _ *http.Request) {
	report, ok, err := robots.ReadSummary(s.opts.RobotsPath)
	if err != nil {
		s.logger.Error("read robots summary failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to read robots summary")
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "robots summary not generated yet")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) runStats(w http.ResponseWriter, _ *http.Request) {
	runStats, ok, err := stats.Read(s.opts.RunStatsPath)
	if err != nil {
		s.logger.Error("read run stats failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to read run stats")
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "no scrape run recorded yet")
		return
	}
	s.writeJSON(w, http.StatusOK, runStats)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		stats.ObserveHTTPRequest(r.Method, r.URL.Path, ww.status, dur)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", dur.Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

type requestIDKey struct{}
