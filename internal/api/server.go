// Package api provides the HTTP API server and handlers for RecipeHub.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/recipehub/recipehub-server/internal/auth"
	"github.com/recipehub/recipehub-server/internal/http/response"
	"github.com/recipehub/recipehub-server/internal/metrics"
	"github.com/recipehub/recipehub-server/internal/ratelimit"
	"github.com/recipehub/recipehub-server/internal/store"
)

// Options tune the HTTP surface.
type Options struct {
	// CORSOrigins lists allowed browser origins. Empty allows any origin.
	CORSOrigins []string
	// RateLimitRPS and RateLimitBurst bound requests per client IP. A zero
	// RPS disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	verifier auth.Verifier
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, verifier auth.Verifier, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:    st,
		services: services,
		verifier: verifier,
		router:   router,
		logger:   logger,
	}

	// Middleware must be in place before huma registers its own routes.
	s.setupMiddleware(opts)

	config := huma.DefaultConfig("RecipeHub API", "1.0.0")
	config.Info.Description = "Recipe books, versioned recipes, search and unit conversion"
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s.api = humachi.New(router, config)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by middleware.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(corsMiddleware(opts.CORSOrigins))

	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS) + 1
		}
		s.limiter = ratelimit.New(opts.RateLimitRPS, burst)
		s.router.Use(rateLimitMiddleware(s.limiter, s.logger))
	}

	s.router.Use(authMiddleware(s.verifier))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerUserRoutes()
	s.registerBookRoutes()
	s.registerRecipeRoutes()
	s.registerVersionRoutes()
	s.registerUnitRoutes()
	s.registerSearchRoutes()
	s.registerCompareRoutes()
	s.registerEventRoutes()

	s.router.Handle("/metrics", metrics.Handler())

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found: "+r.URL.Path, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, "method "+r.Method+" not allowed on "+r.URL.Path, s.logger)
	})
}

// bearer is the security requirement of every protected operation.
var bearer = []map[string][]string{{"bearer": {}}}

// MessageResponse is returned by operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" doc:"Outcome of the operation"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}
