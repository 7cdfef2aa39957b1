package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/streambench/internal/config"
	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/http"
	"github.com/davidbz/streambench/internal/http/middleware"
	"github.com/davidbz/streambench/internal/observability"
	"github.com/davidbz/streambench/internal/provider/echo"
)

const shutdownTimeout = 5 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(logger *zap.Logger, server *http.Server) error {
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(server.Shutdown(shutdownCtx), <-errCh)
	})
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(http.NewMetrics); err != nil {
		log.Fatalf("Failed to provide metrics: %v", err)
	}

	// Streamer
	if err := container.Provide(func(_ *zap.Logger, cfg *echo.Config) domain.Streamer {
		return echo.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide echo streamer: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(func(cfg *config.CORSConfig, metrics *http.Metrics) middleware.Middleware {
		return middleware.BuildMiddlewareChain(cfg, metrics)
	}); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
