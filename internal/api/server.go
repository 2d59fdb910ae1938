// Package api provides the HTTP API server and handlers for the lion auction site.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lionbidapp/lionbid-server/internal/backup"
	"github.com/lionbidapp/lionbid-server/internal/config"
	"github.com/lionbidapp/lionbid-server/internal/ratelimit"
	"github.com/lionbidapp/lionbid-server/internal/service"
	"github.com/lionbidapp/lionbid-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Lion   *service.LionService
	Bid    *service.BidService
	Auth   *service.AuthService
	Backup *backup.Service
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	loginLimiter *ratelimit.KeyedRateLimiter
	bidLimiter   *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, limits config.RateLimitConfig, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Route-scoped limits must be installed before humachi registers
	// its documentation routes; chi rejects middleware added after the
	// first route.
	loginLimiter := ratelimit.PerMinute(limits.LoginPerMinute)
	bidLimiter := ratelimit.PerMinute(limits.BidsPerMinute)
	router.Use(rateLimitMiddleware(loginLimiter, bidLimiter, logger))

	humaConfig := huma.DefaultConfig("LionBid API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		api:          api,
		logger:       logger,
		loginLimiter: loginLimiter,
		bidLimiter:   bidLimiter,
	}

	s.registerHealthRoutes()
	s.registerLionRoutes()
	s.registerBidRoutes()
	s.registerImageRoutes()
	s.registerAdminRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Stop releases the server's rate limiter resources.
func (s *Server) Stop() {
	s.loginLimiter.Stop()
	s.bidLimiter.Stop()
}
