package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/trafficadmin/internal/adapter/http/handler"
	"github.com/iho/trafficadmin/internal/adapter/http/middleware"
	"github.com/iho/trafficadmin/internal/infrastructure/metrics"
	"github.com/iho/trafficadmin/internal/usecase"
)

// RouteMounter mounts a resource's routes on a sub-router.
type RouteMounter interface {
	Routes(r chi.Router)
}

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SessionHandler *handler.SessionHandler
	AuditHandler   *handler.AuditHandler
	HealthHandler  *handler.HealthHandler

	Licenses    RouteMounter
	Vehicles    RouteMounter
	Violations  RouteMounter
	Authorities RouteMounter

	Verifier middleware.TokenVerifier

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsGatherer  prometheus.Gatherer
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Verifier))
		r.Use(middleware.NewLoggingMiddleware(logger).Wrap)

		r.Post("/sessions", cfg.SessionHandler.Open)

		r.Route("/me", func(r chi.Router) {
			r.Get("/permission", cfg.SessionHandler.Permission)
			r.Get("/menu", cfg.SessionHandler.Menu)
			r.Get("/profile", cfg.SessionHandler.Profile)
		})

		r.Get("/audit-logs", cfg.AuditHandler.List)

		// Record writes honour Idempotency-Key
		r.Group(func(r chi.Router) {
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Route("/licenses", cfg.Licenses.Routes)
			r.Route("/vehicles", cfg.Vehicles.Routes)
			r.Route("/violations", cfg.Violations.Routes)
			r.Route("/authorities", cfg.Authorities.Routes)
		})
	})

	return r
}
