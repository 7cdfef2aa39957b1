package domain

import (
	"fmt"
	"time"
)

// Phase identifies which batch a request belongs to.
type Phase string

const (
	// PhaseWarmup primes connections; its results never reach the report.
	PhaseWarmup Phase = "warmup"
	// PhaseBenchmark is the measured batch.
	PhaseBenchmark Phase = "bench"
)

// RequestSpec describes one streaming completion request.
type RequestSpec struct {
	Prompt          string
	MaxOutputTokens int
	ModelID         string
}

// StreamEvent is a decoded content fragment and the moment it arrived.
type StreamEvent struct {
	Text       string
	ReceivedAt time.Time
}

// RequestResult holds the latency and throughput metrics of one request.
type RequestResult struct {
	TTFTMs          float64 `json:"ttft_ms"`
	E2ELatencyMs    float64 `json:"e2e_latency_ms"`
	ITLMs           float64 `json:"itl_ms"`
	OutputTokens    int     `json:"output_tokens"`
	InputTokens     int     `json:"input_tokens"`
	DurationSeconds float64 `json:"duration_seconds"`
	Success         bool    `json:"success"`
}

// BatchSummary holds aggregate metrics for the benchmark phase.
type BatchSummary struct {
	TotalDurationSeconds     float64 `json:"total_duration_seconds"`
	TotalRequests            int     `json:"total_requests"`
	SuccessfulRequests       int     `json:"successful_requests"`
	FailedRequests           int     `json:"failed_requests"`
	AggregateTokensPerSecond float64 `json:"aggregate_tokens_per_second"`
	RequestsPerSecond        float64 `json:"requests_per_second"`
}

// Report is the complete output of a benchmark run.
type Report struct {
	Requests []RequestResult `json:"requests"`
	Summary  BatchSummary    `json:"summary"`
}

// RunConfig carries the load shape of a benchmark run.
type RunConfig struct {
	ModelID        string
	Concurrency    int
	InputTokens    int
	OutputTokens   int
	Requests       int
	WarmupRequests int
	// RequestRate caps request starts per second. Zero means unlimited.
	RequestRate float64
}

// StatusError is returned by a Streamer when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Preview    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Preview)
}
