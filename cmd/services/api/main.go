package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hydroeval/hydroeval/internal/archive"
	"github.com/hydroeval/hydroeval/internal/cache"
	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/events"
	"github.com/hydroeval/hydroeval/internal/history"
	"github.com/hydroeval/hydroeval/internal/jobs"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/router"
	"github.com/hydroeval/hydroeval/internal/services"
	"github.com/hydroeval/hydroeval/internal/telemetry"
	"github.com/hydroeval/hydroeval/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("API service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create data directories", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := services.Dependencies{
		Logger:   logger,
		CacheTTL: cfg.Cache.TTL,
		Batch:    cfg.Batch,
	}

	// Metrics registry
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Recorder = telemetry.NewRecorder(reg)
		logger.Info("Prometheus metrics enabled", "path", cfg.Metrics.Path)
	}

	// Result cache
	logger.Info("Initializing result cache", "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL)
	resultCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "error", err)
	}
	defer func() { _ = resultCache.Close() }()
	deps.Cache = resultCache

	// Analysis history
	var historyStore *history.SQLiteStore
	if cfg.History.Enabled {
		logger.Info("Opening analysis history", "path", cfg.History.Path)
		historyStore, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			logger.Fatal("Failed to open history database", "error", err)
		}
		defer func() { _ = historyStore.Close() }()
		deps.History = historyStore
	} else {
		logger.Warn("Analysis history DISABLED - history and stats endpoints will answer 404")
	}

	// Analysis events
	if t := strings.ToLower(cfg.Events.Type); t != "" && t != string(utils.EventsTypeNone) {
		logger.Info("Connecting event publisher", "type", cfg.Events.Type, "subject", cfg.Events.Subject)
		emitter, err := events.NewEmitterFromConfig(cfg.Events)
		if err != nil {
			logger.Fatal("Failed to connect event publisher", "error", err)
		}
		defer func() { _ = emitter.Close() }()
		deps.Events = emitter
	}

	// Export archive
	store, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		logger.Fatal("Failed to initialize export archive", "error", err)
	}
	if store != nil {
		logger.Info("Export archive enabled", "type", cfg.Archive.Type)
		defer func() { _ = store.Close() }()
		deps.Archive = store
	}

	// Initialize router
	app, h := router.New(deps, *cfg, Version)

	// Background jobs
	scheduler, err := jobs.NewScheduler(logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", "error", err)
	}
	if historyStore != nil {
		if _, err := scheduler.ScheduleHistoryPrune(cfg.History.PruneInterval, cfg.History.Retention, historyStore, deps.Recorder); err != nil {
			logger.Fatal("Failed to schedule history pruning", "error", err)
		}
	}
	if cfg.Jobs.CacheStatsInterval > 0 && cfg.CacheEnabled() {
		if _, err := scheduler.ScheduleCacheStats(cfg.Jobs.CacheStatsInterval, h.AnalysisService()); err != nil {
			logger.Fatal("Failed to schedule cache stats", "error", err)
		}
	}
	scheduler.Start()

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if err := scheduler.Stop(); err != nil {
		logger.Error("Scheduler shutdown failed", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
