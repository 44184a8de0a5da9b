// Package server exposes the redaction engine over HTTP. The API layer is
// deliberately thin: request/response plumbing around pipeline.Engine,
// with no persistence of document content and no authentication.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shroud-io/shroud/internal/audit"
	"github.com/shroud-io/shroud/internal/otel"
	"github.com/shroud-io/shroud/internal/pipeline"
	"github.com/shroud-io/shroud/internal/redact"
)

const defaultTimeout = 60 * time.Second

// Server holds the dependencies for the HTTP API.
type Server struct {
	router       *chi.Mux
	engine       *pipeline.Engine
	auditStore   *audit.Store
	defaultFill  rune
	maxTextBytes int64
	startTime    time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithAuditStore enables audit recording of runs (optional).
func WithAuditStore(store *audit.Store) Option {
	return func(s *Server) { s.auditStore = store }
}

// WithDefaultFill sets the fill rune used when a request does not specify one.
func WithDefaultFill(fill rune) Option {
	return func(s *Server) { s.defaultFill = fill }
}

// WithMaxTextBytes bounds request body size. The engine itself enforces no
// input limit; bounding text size is this caller's responsibility.
func WithMaxTextBytes(n int64) Option {
	return func(s *Server) { s.maxTextBytes = n }
}

// NewServer builds a Server around the given engine.
func NewServer(engine *pipeline.Engine, opts ...Option) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		engine:       engine,
		defaultFill:  redact.DefaultFillRune,
		maxTextBytes: 1 << 20,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otel.Middleware())
	r.Use(middleware.Timeout(defaultTimeout))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/redact", s.handleRedact)
		r.Get("/audit", s.handleAuditList)
	})

	return r
}
