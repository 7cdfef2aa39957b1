package domain

import (
	"context"
	"time"

	"github.com/davidbz/streambench/internal/observability"
)

// BenchmarkService runs the warm-up and benchmark phases of a run.
type BenchmarkService struct {
	runner *BatchRunner
	cfg    RunConfig
	now    func() time.Time
}

// NewBenchmarkService creates a new benchmark service (DI constructor).
func NewBenchmarkService(runner *BatchRunner, cfg RunConfig) *BenchmarkService {
	return &BenchmarkService{
		runner: runner,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Run executes the warm-up phase, then the measured phase, and returns the report.
// Failed requests are reflected in the summary counters, never as an error.
func (s *BenchmarkService) Run(ctx context.Context) *Report {
	ctx = observability.WithModel(ctx, s.cfg.ModelID)
	logger := observability.FromContext(ctx)

	if s.cfg.WarmupRequests > 0 {
		logger.Info("running warmup requests", observability.Int("requests", s.cfg.WarmupRequests))
		s.runner.Run(ctx, PhaseWarmup, s.cfg.WarmupRequests)
		logger.Info("warmup complete")
	}

	logger.Info("running benchmark requests",
		observability.Int("requests", s.cfg.Requests),
		observability.Int("concurrency", s.cfg.Concurrency))

	start := s.now()
	results := s.runner.Run(ctx, PhaseBenchmark, s.cfg.Requests)
	elapsed := s.now().Sub(start)

	report := &Report{
		Requests: results,
		Summary:  Aggregate(elapsed.Seconds(), results),
	}

	logSummary(ctx, report, elapsed)

	return report
}

func logSummary(ctx context.Context, report *Report, elapsed time.Duration) {
	logger := observability.FromContext(ctx)
	summary := report.Summary

	logger.Info("benchmark summary",
		observability.Int("total_requests", summary.TotalRequests),
		observability.Float64("total_duration_seconds", summary.TotalDurationSeconds),
		observability.Duration("elapsed", elapsed),
		observability.Int("successful_requests", summary.SuccessfulRequests),
		observability.Int("failed_requests", summary.FailedRequests),
		observability.Float64("aggregate_tokens_per_second", summary.AggregateTokensPerSecond),
		observability.Float64("requests_per_second", summary.RequestsPerSecond),
	)

	metrics := []struct {
		name  string
		value func(RequestResult) float64
	}{
		{"ttft_ms", func(r RequestResult) float64 { return r.TTFTMs }},
		{"e2e_latency_ms", func(r RequestResult) float64 { return r.E2ELatencyMs }},
		{"itl_ms", func(r RequestResult) float64 { return r.ITLMs }},
	}
	for _, m := range metrics {
		stats, ok := Percentiles(report.Requests, m.value)
		if !ok {
			continue
		}
		logger.Info("latency percentiles",
			observability.String("metric", m.name),
			observability.Float64("p50", stats.P50),
			observability.Float64("p90", stats.P90),
			observability.Float64("p95", stats.P95),
			observability.Float64("p99", stats.P99),
		)
	}
}
