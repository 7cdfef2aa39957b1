package redis_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/store/redis"
)

func newStore(t *testing.T, ttl time.Duration) (*redis.ReportStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewReportStore(client, ttl), mr
}

func sampleReport() *domain.Report {
	return &domain.Report{
		Requests: []domain.RequestResult{
			{TTFTMs: 12.5, E2ELatencyMs: 80, ITLMs: 4, OutputTokens: 16, InputTokens: 512, DurationSeconds: 0.08, Success: true},
		},
		Summary: domain.BatchSummary{
			TotalDurationSeconds:     2,
			TotalRequests:            1,
			SuccessfulRequests:       1,
			AggregateTokensPerSecond: 8,
			RequestsPerSecond:        0.5,
		},
	}
}

func TestReportStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist report, summary and run list", func(t *testing.T) {
		store, mr := newStore(t, time.Hour)

		require.NoError(t, store.Save(ctx, "run-1", sampleReport()))

		require.True(t, mr.Exists(redis.ReportKey("run-1")))
		require.Equal(t, time.Hour, mr.TTL(redis.ReportKey("run-1")))
		require.Equal(t, "1", mr.HGet(redis.SummaryKey("run-1"), "successful_requests"))
		require.Equal(t, time.Hour, mr.TTL(redis.SummaryKey("run-1")))

		runs, err := mr.List("streambench:runs")
		require.NoError(t, err)
		require.Equal(t, []string{"run-1"}, runs)

		loaded, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		require.Equal(t, sampleReport(), loaded)
	})

	t.Run("should keep keys without a ttl", func(t *testing.T) {
		store, mr := newStore(t, 0)

		require.NoError(t, store.Save(ctx, "run-2", sampleReport()))

		require.Zero(t, mr.TTL(redis.ReportKey("run-2")))
	})

	t.Run("should validate input", func(t *testing.T) {
		store, _ := newStore(t, 0)

		require.Error(t, store.Save(ctx, "", sampleReport()))
		require.Error(t, store.Save(ctx, "run-3", nil))
	})

	t.Run("should surface connection errors", func(t *testing.T) {
		store, mr := newStore(t, 0)
		mr.Close()

		err := store.Save(ctx, "run-4", sampleReport())

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to save report")
	})
}

func TestReportStore_Load(t *testing.T) {
	t.Run("should fail for an unknown run", func(t *testing.T) {
		store, _ := newStore(t, 0)

		_, err := store.Load(context.Background(), "missing")

		require.Error(t, err)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("should parse a redis URL", func(t *testing.T) {
		client, err := redis.NewClient("redis://localhost:6379/0")

		require.NoError(t, err)
		require.NotNil(t, client)
		require.NoError(t, client.Close())
	})

	t.Run("should reject an invalid URL", func(t *testing.T) {
		_, err := redis.NewClient("http://nope")

		require.Error(t, err)
	})
}

func TestReportStore_Close(t *testing.T) {
	var _ io.Closer = (*redis.ReportStore)(nil)

	store, _ := newStore(t, time.Hour)

	require.NoError(t, store.Close())

	err := store.Save(context.Background(), "run-1", sampleReport())
	require.ErrorIs(t, err, goredis.ErrClosed)
}
