// Package redis persists finished benchmark reports to Redis so an
// orchestrator can collect them without scraping process output.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
)

const (
	keyPrefix  = "streambench:"
	runListKey = keyPrefix + "runs"
)

// ReportKey returns the key holding the JSON report of a run.
func ReportKey(runID string) string {
	return keyPrefix + "report:" + runID
}

// SummaryKey returns the hash key holding the summary counters of a run.
func SummaryKey(runID string) string {
	return keyPrefix + "summary:" + runID
}

// ReportStore implements domain.ReportSink using Redis.
type ReportStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportStore creates a new Redis report store. A non-positive TTL keeps keys forever.
func NewReportStore(client *redis.Client, ttl time.Duration) *ReportStore {
	return &ReportStore{
		client: client,
		ttl:    ttl,
	}
}

// NewClient opens a Redis client from a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Save stores the report JSON and summary hash under the run ID and records the run.
func (s *ReportStore) Save(ctx context.Context, runID string, report *domain.Report) error {
	if runID == "" {
		return errors.New("run ID cannot be empty")
	}
	if report == nil {
		return errors.New("report cannot be nil")
	}

	logger := observability.FromContext(ctx)

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	summary := report.Summary
	pipe := s.client.TxPipeline()

	pipe.Set(ctx, ReportKey(runID), data, s.expiration())
	pipe.HSet(ctx, SummaryKey(runID),
		"total_duration_seconds", summary.TotalDurationSeconds,
		"total_requests", summary.TotalRequests,
		"successful_requests", summary.SuccessfulRequests,
		"failed_requests", summary.FailedRequests,
		"aggregate_tokens_per_second", summary.AggregateTokensPerSecond,
		"requests_per_second", summary.RequestsPerSecond,
		"saved_at", time.Now().Unix(),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, SummaryKey(runID), s.ttl)
	}
	pipe.LPush(ctx, runListKey, runID)

	if _, execErr := pipe.Exec(ctx); execErr != nil {
		logger.Error("report save failed", observability.Error(execErr))
		return fmt.Errorf("failed to save report: %w", execErr)
	}

	logger.Info("report saved",
		observability.String("key", ReportKey(runID)),
		observability.Int("data_size", len(data)))
	return nil
}

// Load reads a previously saved report.
func (s *ReportStore) Load(ctx context.Context, runID string) (*domain.Report, error) {
	data, err := s.client.Get(ctx, ReportKey(runID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", runID, err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", runID, err)
	}
	return &report, nil
}

// Close releases the underlying client.
func (s *ReportStore) Close() error {
	return s.client.Close()
}

func (s *ReportStore) expiration() time.Duration {
	if s.ttl > 0 {
		return s.ttl
	}
	return 0
}
