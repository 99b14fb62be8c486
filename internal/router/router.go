package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/smart-health-monitoring/internal/config"
	"github.com/iliyamo/smart-health-monitoring/internal/handler"
	"github.com/iliyamo/smart-health-monitoring/internal/middleware"
)

// UseMiddleware installs the global middleware chain.  Recovery sits inside
// Logger so recovered panics are logged with their final status.
func UseMiddleware(e *echo.Echo, logger zerolog.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
}

// RegisterRoutes registers the probe endpoints.  /healthz answers as long
// as the process runs; /readyz also requires the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAPI registers the health data API under /api.  The rate limiter
// is a pass-through unless enabled in cfg and rdb is reachable.
func RegisterAPI(e *echo.Echo, h *handler.HealthDataHandler, cfg config.RateLimitConfig, rdb *redis.Client, logger zerolog.Logger) {
	api := e.Group("/api", middleware.NewTokenBucket(cfg, rdb, logger))
	api.GET("/healthdata", h.GetAllPatientsHealthData)
}
