// Package main is the entry point for the function visualizer.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/function-visualizer/internal/adapters/http"
	"github.com/jsamuelsen/function-visualizer/internal/adapters/http/handlers"
	"github.com/jsamuelsen/function-visualizer/internal/app"
	"github.com/jsamuelsen/function-visualizer/internal/domain"
	"github.com/jsamuelsen/function-visualizer/internal/platform/config"
	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
	"github.com/jsamuelsen/function-visualizer/internal/platform/telemetry"
	"github.com/jsamuelsen/function-visualizer/internal/ports"
	"github.com/jsamuelsen/function-visualizer/web"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create the pipeline services (application layer)
	visualizer := app.NewVisualizeService(app.VisualizeServiceConfig{
		Sampling: domain.Sampling{
			XMin:   cfg.Pipeline.XMin,
			XMax:   cfg.Pipeline.XMax,
			Points: cfg.Pipeline.Samples,
			YLimit: cfg.Pipeline.YLimit,
		},
		Metrics: app.NewMetrics(prometheus.DefaultRegisterer),
		Logger:  logger,
	})
	charts := app.NewChartService(domain.ChartOptions{
		Width:  cfg.Chart.Width,
		Height: cfg.Chart.Height,
	}, visualizer.Sampling(), logger)

	// 6. Create health registry with the pipeline canary
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(app.NewPipelineHealthCheck(visualizer)); err != nil {
		return fmt.Errorf("registering pipeline health check: %w", err)
	}

	// 7. Create handlers
	assets := web.Static()
	if cfg.Static.Dir != "" {
		assets = os.DirFS(cfg.Static.Dir)
		logger.Info("serving front end from disk", slog.String("dir", cfg.Static.Dir))
	}

	staticHandler, err := newStaticHandler(assets)
	if err != nil {
		return err
	}

	buildInfo := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, nil)
	visualizeHandler := handlers.NewVisualizeHandler(visualizer, charts)

	// 8. Create HTTP server
	server := http.New(&cfg.Server, cfg.App.Debug, logger)

	// 9. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:           logger,
		ServiceName:      cfg.Telemetry.ServiceName,
		Timeout:          cfg.Server.RequestTimeout,
		HealthHandler:    healthHandler,
		VisualizeHandler: visualizeHandler,
		StaticHandler:    staticHandler,
	})

	// 10. Start server (non-blocking)
	serverErr := server.Start()

	// 11. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

func newStaticHandler(assets fs.FS) (*handlers.StaticHandler, error) {
	h, err := handlers.NewStaticHandler(assets)
	if err != nil {
		return nil, fmt.Errorf("loading front end: %w", err)
	}
	return h, nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
