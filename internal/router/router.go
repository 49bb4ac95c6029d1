package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/handlers"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/middleware"
	"github.com/hydroeval/hydroeval/internal/services"
	"github.com/hydroeval/hydroeval/internal/telemetry"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, deps services.Dependencies, cfg config.Config, version string) *handlers.Handler {
	logger := deps.Logger
	h := handlers.New(deps, version)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))
	if deps.Recorder != nil {
		app.Use(deps.Recorder.Middleware())
	}

	// Health checks
	app.Get("/", h.Health)
	app.Get("/health", h.Health)

	// Prometheus exposition
	if cfg.Metrics.Enabled && deps.Recorder != nil {
		app.Get(cfg.Metrics.Path, telemetry.Handler(deps.Recorder.Registry()))
	}

	v1 := app.Group("/api/v1")

	// Metrics computation
	v1.Post("/analyze", h.Analyze)
	v1.Get("/metrics/info", h.MetricsInfo)

	// Series transforms
	transform := v1.Group("/transform")
	transform.Post("/interpolate", h.Interpolate)
	transform.Post("/smooth", h.Smooth)
	transform.Post("/fill", h.Fill)
	transform.Post("/decompose", h.Decompose)
	transform.Post("/outliers", h.Outliers)
	transform.Post("/resample", h.Resample)

	// Batch evaluation
	batch := v1.Group("/batch")
	batch.Post("/analyze", h.BatchAnalyze)
	batch.Post("/compare", h.BatchCompare)
	batch.Post("/export", h.BatchExport)

	// History
	v1.Get("/history", h.History)
	v1.Get("/stats", h.Stats)

	// Result cache
	v1.Get("/cache/stats", h.CacheStats)
	v1.Delete("/cache", h.InvalidateCache)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(deps services.Dependencies, cfg config.Config, version string) (*fiber.App, *handlers.Handler) {
	app := fiber.New(fiber.Config{
		AppName:               "HydroEval API",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(deps.Logger),
	})

	h := Setup(app, deps, cfg, version)

	return app, h
}
