// Package api provides the HTTP API of the prompt server of record.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptozer/promptozer/internal/ratelimit"
	"github.com/promptozer/promptozer/internal/store"
)

// Options tunes the HTTP surface.
type Options struct {
	// AllowedOrigins for browser clients. Empty allows any origin.
	AllowedOrigins []string
	// AuthRatePerMinute and AuthRateBurst limit /api/v1/auth calls per client IP.
	AuthRatePerMinute int
	AuthRateBurst     int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		AuthRatePerMinute: 20,
		AuthRateBurst:     10,
	}
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo            store.Repository
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(repo store.Repository, services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.AuthRatePerMinute <= 0 {
		opts.AuthRatePerMinute = DefaultOptions().AuthRatePerMinute
	}
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = DefaultOptions().AuthRateBurst
	}

	s := &Server{
		repo:            repo,
		services:        services,
		router:          chi.NewRouter(),
		logger:          logger,
		authRateLimiter: ratelimit.PerInterval(opts.AuthRatePerMinute, time.Minute, opts.AuthRateBurst),
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("PromptOzer API", "1.0.0")
	// No $schema links: every body goes out inside the envelope.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = []huma.Transformer{EnvelopeTransformer}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerPromptRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// API exposes the huma API, for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.authRateLimiter, authPathPrefix, s.logger))
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
