package domain

import (
	"math"
	"sort"
)

// Aggregate reduces a benchmark phase into its summary. Division by a
// non-positive duration yields zero rates.
func Aggregate(totalDurationSeconds float64, results []RequestResult) BatchSummary {
	successful := 0
	totalOutputTokens := 0
	for _, r := range results {
		if !r.Success {
			continue
		}
		successful++
		totalOutputTokens += r.OutputTokens
	}

	var tokensPerSecond, requestsPerSecond float64
	if totalDurationSeconds > 0 {
		tokensPerSecond = float64(totalOutputTokens) / totalDurationSeconds
		requestsPerSecond = float64(successful) / totalDurationSeconds
	}

	return BatchSummary{
		TotalDurationSeconds:     totalDurationSeconds,
		TotalRequests:            len(results),
		SuccessfulRequests:       successful,
		FailedRequests:           len(results) - successful,
		AggregateTokensPerSecond: tokensPerSecond,
		RequestsPerSecond:        requestsPerSecond,
	}
}

// LatencyStats holds nearest-rank percentiles of one metric.
type LatencyStats struct {
	P50 float64
	P90 float64
	P95 float64
	P99 float64
}

// Percentiles computes LatencyStats over the successful results for the
// selected metric. ok is false when no request succeeded.
func Percentiles(results []RequestResult, metric func(RequestResult) float64) (LatencyStats, bool) {
	vals := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Success {
			vals = append(vals, metric(r))
		}
	}
	if len(vals) == 0 {
		return LatencyStats{}, false
	}

	sort.Float64s(vals)
	return LatencyStats{
		P50: percentile(vals, 50),
		P90: percentile(vals, 90),
		P95: percentile(vals, 95),
		P99: percentile(vals, 99),
	}, true
}

// percentile uses the nearest-rank method on a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100.0*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
