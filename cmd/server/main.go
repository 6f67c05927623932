package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/graphlayout/internal/api"
	"github.com/onnwee/graphlayout/internal/cache"
	"github.com/onnwee/graphlayout/internal/config"
	"github.com/onnwee/graphlayout/internal/dispatch"
	"github.com/onnwee/graphlayout/internal/errorreporting"
	"github.com/onnwee/graphlayout/internal/logger"
	"github.com/onnwee/graphlayout/internal/metrics"
	"github.com/onnwee/graphlayout/internal/middleware"
	"github.com/onnwee/graphlayout/internal/sim"
	"github.com/onnwee/graphlayout/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, falling back to system env")
	}

	cfg := config.Load()

	logger.Init(cfg.LogLevel)
	logger.Info("initializing layout server", "log_level", cfg.LogLevel)

	if err := errorreporting.Init(cfg.SentryEnvironment); err != nil {
		logger.Warn("failed to initialize error reporting", "error", err)
	} else if errorreporting.IsSentryEnabled() {
		logger.Info("error reporting initialized", "environment", cfg.SentryEnvironment)
		defer errorreporting.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init("graphlayout-server")
	if err != nil {
		logger.Warn("failed to initialize tracing", "error", err)
	} else if cfg.OTELEnabled {
		logger.Info("tracing initialized", "endpoint", cfg.OTELEndpoint, "sample_rate", cfg.OTELSampleRate)
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Error("failed to shut down tracer", "error", err)
			}
		}()
	}

	snapshotCache, err := cache.NewLRU(cfg.SnapshotCacheSize/(1<<20), cfg.SnapshotCacheCounters, time.Minute)
	if err != nil {
		logger.Error("failed to initialize snapshot cache", "error", err)
		os.Exit(1)
	}
	defer snapshotCache.Close()

	registry := sim.NewRegistry()
	collector := metrics.NewCollector(registry, 5*time.Second)
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	go collector.Start(collectorCtx)
	defer stopCollector()

	hub := dispatch.NewHub()
	go hub.Run()
	defer hub.Stop()

	var limiter *middleware.RateLimiter
	if cfg.EnableRateLimit {
		limiter = middleware.NewRateLimiter(cfg.RateLimitGlobal, cfg.RateLimitGlobalBurst, cfg.RateLimitPerIP, cfg.RateLimitPerIPBurst)
		defer limiter.Stop()
	}

	router := api.NewRouter(registry, hub, snapshotCache, cfg, limiter)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		logger.Info("layout server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down layout server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
