// Package server exposes the repository view over HTTP: one page of the
// presented view as JSON, the same page as a syndication feed, and the
// health, readiness and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sternrassler/gh-repo-browser/pkg/logging"
	"github.com/Sternrassler/gh-repo-browser/pkg/metrics"
	"github.com/Sternrassler/gh-repo-browser/pkg/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Upstream is the repository source the server relays.
type Upstream interface {
	view.Fetcher
	Ping(ctx context.Context) error
	Org() string
}

// Config holds the HTTP server configuration.
type Config struct {
	// AllowedOrigins for CORS (e.g. "http://localhost:*")
	AllowedOrigins []string

	// ReadyTimeout bounds the upstream ping behind /ready
	ReadyTimeout time.Duration
}

// DefaultConfig returns a configuration that allows local origins.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		ReadyTimeout:   5 * time.Second,
	}
}

// Server holds the HTTP server dependencies.
type Server struct {
	upstream Upstream
	config   Config
	router   chi.Router
	logger   zerolog.Logger
	nowFn    func() time.Time
}

// New creates a new API server.
func New(upstream Upstream, cfg Config) *Server {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 5 * time.Second
	}

	s := &Server{
		upstream: upstream,
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logging.NewLogger("repo-proxy"),
		nowFn:    time.Now,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(hlog.NewHandler(s.logger))
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Handled request")
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/repos", s.handleGetRepos)
		r.Get("/repos/feed", s.handleGetFeed)
	})

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ready", s.handleReady)
	s.router.Handle("/metrics", metrics.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.ReadyTimeout)
	defer cancel()

	if err := s.upstream.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Upstream not ready")
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
