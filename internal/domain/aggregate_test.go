package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/streambench/internal/domain"
)

func TestAggregate(t *testing.T) {
	t.Run("should count only successful output tokens", func(t *testing.T) {
		results := make([]domain.RequestResult, 0, 10)
		for range 7 {
			results = append(results, domain.RequestResult{OutputTokens: 100, Success: true})
		}
		for range 3 {
			results = append(results, domain.RequestResult{OutputTokens: 40, Success: false})
		}

		summary := domain.Aggregate(10, results)

		require.Equal(t, 10, summary.TotalRequests)
		require.Equal(t, 7, summary.SuccessfulRequests)
		require.Equal(t, 3, summary.FailedRequests)
		require.InDelta(t, 70.0, summary.AggregateTokensPerSecond, 1e-9)
		require.InDelta(t, 0.7, summary.RequestsPerSecond, 1e-9)
		require.InDelta(t, 10.0, summary.TotalDurationSeconds, 1e-9)
	})

	t.Run("should not divide by a zero duration", func(t *testing.T) {
		summary := domain.Aggregate(0, []domain.RequestResult{{OutputTokens: 5, Success: true}})

		require.Equal(t, 0.0, summary.AggregateTokensPerSecond)
		require.Equal(t, 0.0, summary.RequestsPerSecond)
	})

	t.Run("should not divide by a negative duration", func(t *testing.T) {
		summary := domain.Aggregate(-1, []domain.RequestResult{{OutputTokens: 5, Success: true}})

		require.Equal(t, 0.0, summary.AggregateTokensPerSecond)
		require.Equal(t, 0.0, summary.RequestsPerSecond)
	})

	t.Run("should summarize an all-failed batch", func(t *testing.T) {
		summary := domain.Aggregate(2, []domain.RequestResult{{}, {}})

		require.Equal(t, 0, summary.SuccessfulRequests)
		require.Equal(t, 2, summary.FailedRequests)
		require.Equal(t, 0.0, summary.AggregateTokensPerSecond)
		require.Equal(t, 0.0, summary.RequestsPerSecond)
	})

	t.Run("should summarize an empty batch", func(t *testing.T) {
		summary := domain.Aggregate(1, nil)

		require.Equal(t, domain.BatchSummary{TotalDurationSeconds: 1}, summary)
	})
}

func TestPercentiles(t *testing.T) {
	t.Run("should use nearest rank over successful results", func(t *testing.T) {
		results := make([]domain.RequestResult, 0, 101)
		for i := 100; i >= 1; i-- {
			results = append(results, domain.RequestResult{TTFTMs: float64(i), Success: true})
		}
		results = append(results, domain.RequestResult{TTFTMs: 10_000, Success: false})

		stats, ok := domain.Percentiles(results, func(r domain.RequestResult) float64 { return r.TTFTMs })

		require.True(t, ok)
		require.Equal(t, domain.LatencyStats{P50: 50, P90: 90, P95: 95, P99: 99}, stats)
	})

	t.Run("should report no stats without successes", func(t *testing.T) {
		_, ok := domain.Percentiles([]domain.RequestResult{{Success: false}}, func(r domain.RequestResult) float64 {
			return r.TTFTMs
		})

		require.False(t, ok)
	})

	t.Run("should return the single value for one sample", func(t *testing.T) {
		stats, ok := domain.Percentiles([]domain.RequestResult{{ITLMs: 4.5, Success: true}}, func(r domain.RequestResult) float64 {
			return r.ITLMs
		})

		require.True(t, ok)
		require.Equal(t, domain.LatencyStats{P50: 4.5, P90: 4.5, P95: 4.5, P99: 4.5}, stats)
	})
}
