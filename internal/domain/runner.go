package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/davidbz/streambench/internal/observability"
)

// EventRequestCompleted is published once per finished request.
const EventRequestCompleted = "request_completed"

// BatchRunner drives one phase of requests under an admission gate.
type BatchRunner struct {
	streamer  Streamer
	prompts   PromptSource
	publisher EventPublisher
	cfg       RunConfig
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewBatchRunner creates a new batch runner (DI constructor).
func NewBatchRunner(streamer Streamer, prompts PromptSource, publisher EventPublisher, cfg RunConfig) *BatchRunner {
	var limiter *rate.Limiter
	if cfg.RequestRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), 1)
	}

	return &BatchRunner{
		streamer:  streamer,
		prompts:   prompts,
		publisher: publisher,
		cfg:       cfg,
		limiter:   limiter,
		now:       time.Now,
	}
}

// Run executes n requests with at most cfg.Concurrency in flight and returns
// the results in completion order.
func (r *BatchRunner) Run(ctx context.Context, phase Phase, n int) []RequestResult {
	if n <= 0 {
		return []RequestResult{}
	}

	ctx = observability.WithPhase(ctx, string(phase))
	gate := NewGate(r.cfg.Concurrency)
	completed := make(chan RequestResult, n)

	var g errgroup.Group
	for range n {
		g.Go(func() error {
			completed <- r.execute(ctx, gate)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(completed)
	}()

	results := make([]RequestResult, 0, n)
	for result := range completed {
		results = append(results, result)
		r.publish(ctx, phase, len(results), n, result)
	}

	return results
}

// execute runs one request. Every failure is absorbed into the returned result.
func (r *BatchRunner) execute(ctx context.Context, gate *Gate) RequestResult {
	ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())
	logger := observability.FromContext(ctx)

	// Latency includes time spent waiting for pacing and a gate slot.
	start := r.now()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			logger.Warn("request not started", observability.Error(err))
			return r.notStarted()
		}
	}

	release, err := gate.Acquire(ctx)
	if err != nil {
		logger.Warn("request not started", observability.Error(err))
		return r.notStarted()
	}
	defer release()

	spec := &RequestSpec{
		Prompt:          r.prompts.Draw(),
		MaxOutputTokens: r.cfg.OutputTokens,
		ModelID:         r.cfg.ModelID,
	}

	var tokens []time.Time
	streamErr := r.stream(ctx, spec, func(ev StreamEvent) {
		tokens = append(tokens, ev.ReceivedAt)
	})
	end := r.now()

	if streamErr != nil {
		var statusErr *StatusError
		if errors.As(streamErr, &statusErr) {
			logger.Warn("request failed",
				observability.Int("status", statusErr.StatusCode),
				observability.String("body", statusErr.Preview))
			// A rejected request never produced tokens.
			tokens = nil
		} else {
			logger.Warn("request failed",
				observability.Int("partial_tokens", len(tokens)),
				observability.Error(streamErr))
		}
	}

	return ExtractMetrics(Measurement{
		Start:       start,
		End:         end,
		Tokens:      tokens,
		Success:     streamErr == nil,
		InputTokens: r.cfg.InputTokens,
	})
}

// stream shields the batch from a panicking streamer.
func (r *BatchRunner) stream(ctx context.Context, spec *RequestSpec, onEvent func(StreamEvent)) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("streamer %s panicked: %v", r.streamer.Name(), rec)
		}
	}()

	return r.streamer.Stream(ctx, spec, onEvent)
}

func (r *BatchRunner) notStarted() RequestResult {
	now := r.now()
	return ExtractMetrics(Measurement{
		Start:       now,
		End:         now,
		Success:     false,
		InputTokens: r.cfg.InputTokens,
	})
}

func (r *BatchRunner) publish(ctx context.Context, phase Phase, index, total int, result RequestResult) {
	if r.publisher == nil {
		return
	}

	status := "ok"
	if !result.Success {
		status = "FAIL"
	}

	r.publisher.Publish(ctx, EventRequestCompleted, map[string]interface{}{
		"phase":          string(phase),
		"index":          index,
		"total":          total,
		"status":         status,
		"ttft_ms":        result.TTFTMs,
		"e2e_latency_ms": result.E2ELatencyMs,
		"output_tokens":  result.OutputTokens,
	})
}
