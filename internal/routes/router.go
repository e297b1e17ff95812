package routes

import (
	"net/http"
	"time"

	"airport-ops/tarmac/internal/api"
	"airport-ops/tarmac/internal/config"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the chi router with global middleware, the public
// endpoints and the versioned API
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, metricsReg *metrics.MetricsRegistry, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, "127.0.0.1", "::1")
	r.Use(limiter.Middleware)

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(deps.Health, upSince))
	r.Handle("/metrics", promhttp.Handler())

	RegisterAPIRoutes(r, []byte(cfg.JWTSecret), api.NewFlightHandlers(deps.Services.Flights))

	return r
}
