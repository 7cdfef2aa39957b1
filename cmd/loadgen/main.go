package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/streambench/internal/config"
	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
	"github.com/davidbz/streambench/internal/prompt"
	"github.com/davidbz/streambench/internal/provider/completions"
	"github.com/davidbz/streambench/internal/provider/echo"
	"github.com/davidbz/streambench/internal/provider/openai"
	"github.com/davidbz/streambench/internal/provider/registry"
	"github.com/davidbz/streambench/internal/report"
	redisstore "github.com/davidbz/streambench/internal/store/redis"
)

const saveTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	if err := container.Invoke(run); err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}
}

type runParams struct {
	dig.In

	Logger  *zap.Logger
	Load    *config.LoadConfig
	Service *domain.BenchmarkService
	Sink    domain.ReportSink `optional:"true"`
}

func run(p runParams) error {
	defer func() { _ = p.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := p.Load.RunID
	if runID == "" {
		runID = observability.GenerateRunID()
	}
	ctx = observability.WithRunID(ctx, runID)
	ctx = observability.WithModel(ctx, p.Load.ModelID)
	ctx = observability.WithTraceID(ctx, observability.GenerateTraceID())

	logger := observability.FromContext(ctx)
	logger.Info("starting benchmark",
		observability.String("client", p.Load.Client),
		observability.Int("concurrency", p.Load.Concurrency),
		observability.Int("num_requests", p.Load.NumRequests),
		observability.Int("warmup_requests", p.Load.WarmupRequests),
		observability.Int("input_seq_len", p.Load.InputSeqLen),
		observability.Int("output_seq_len", p.Load.OutputSeqLen),
		observability.Bool("report_sink", p.Sink != nil),
	)

	rep := p.Service.Run(ctx)

	if err := report.Write(os.Stdout, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if p.Sink != nil {
		if closer, ok := p.Sink.(io.Closer); ok {
			defer func() { _ = closer.Close() }()
		}

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		if err := p.Sink.Save(saveCtx, runID, rep); err != nil {
			logger.Error("failed to save report", observability.Error(err))
		}
	}

	return nil
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
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Streamers
	if err := container.Provide(provideRegistry); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}
	if err := container.Provide(func(reg domain.StreamerRegistry, load *config.LoadConfig) (domain.Streamer, error) {
		return reg.Get(context.Background(), load.Client)
	}); err != nil {
		log.Fatalf("Failed to provide streamer: %v", err)
	}

	// Prompts
	// Depends on RunConfig so an invalid load config fails before any dataset download.
	if err := container.Provide(func(_ *zap.Logger, cfg *prompt.Config, run domain.RunConfig) domain.PromptSource {
		return prompt.Build(context.Background(), cfg, run.InputTokens)
	}); err != nil {
		log.Fatalf("Failed to provide prompt pool: %v", err)
	}

	// Report sink
	if err := container.Provide(provideReportSink); err != nil {
		log.Fatalf("Failed to provide report sink: %v", err)
	}

	// Domain Services
	if err := container.Provide(func(load *config.LoadConfig) (domain.RunConfig, error) {
		if err := load.Validate(); err != nil {
			return domain.RunConfig{}, err
		}
		return load.RunConfig(), nil
	}); err != nil {
		log.Fatalf("Failed to provide run config: %v", err)
	}
	if err := container.Provide(domain.NewBatchRunner); err != nil {
		log.Fatalf("Failed to provide batch runner: %v", err)
	}
	if err := container.Provide(domain.NewBenchmarkService); err != nil {
		log.Fatalf("Failed to provide benchmark service: %v", err)
	}

	return container
}

// provideRegistry registers every streamer that can be built from the config.
func provideRegistry(
	_ *zap.Logger,
	target *completions.Config,
	openaiCfg *openai.Config,
	echoCfg *echo.Config,
) (domain.StreamerRegistry, error) {
	ctx := context.Background()
	logger := observability.FromContext(ctx)
	reg := registry.NewRegistry()

	completionsClient, err := completions.NewClient(*target)
	if err != nil {
		logger.Warn("completions streamer not configured", observability.Error(err))
	} else if err := reg.Register(ctx, completionsClient); err != nil {
		return nil, fmt.Errorf("failed to register completions streamer: %w", err)
	}

	openaiProvider, err := openai.NewProvider(*openaiCfg)
	if err != nil {
		logger.Warn("openai streamer not configured", observability.Error(err))
	} else if err := reg.Register(ctx, openaiProvider); err != nil {
		return nil, fmt.Errorf("failed to register openai streamer: %w", err)
	}

	if err := reg.Register(ctx, echo.NewProvider(*echoCfg)); err != nil {
		return nil, fmt.Errorf("failed to register echo streamer: %w", err)
	}

	return reg, nil
}

type reportSinkResult struct {
	dig.Out

	Sink domain.ReportSink
}

// provideReportSink returns a Redis-backed sink when REDIS_URL is set.
func provideReportSink(cfg *redisstore.Config) (reportSinkResult, error) {
	if cfg.URL == "" {
		return reportSinkResult{}, nil
	}

	client, err := redisstore.NewClient(cfg.URL)
	if err != nil {
		return reportSinkResult{}, err
	}

	return reportSinkResult{
		Sink: redisstore.NewReportStore(client, time.Duration(cfg.ReportTTL)*time.Second),
	}, nil
}
