package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/streambench/internal/config"
	"github.com/davidbz/streambench/internal/domain"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, "completions", cfg.Load.Client)
		require.Equal(t, 16, cfg.Load.Concurrency)
		require.Equal(t, 512, cfg.Load.InputSeqLen)
		require.Equal(t, 256, cfg.Load.OutputSeqLen)
		require.Equal(t, 200, cfg.Load.NumRequests)
		require.Equal(t, 10, cfg.Load.WarmupRequests)
		require.Zero(t, cfg.Load.RequestRate)
		require.Empty(t, cfg.Load.ModelID)
		require.Equal(t, "http://localhost:8000/v1/completions", cfg.Target.URL)
		require.Equal(t, 300, cfg.Target.Timeout)
		require.Equal(t, cfg.Target.URL, cfg.OpenAI.URL)
		require.Equal(t, "sharegpt", cfg.Dataset.Dataset)
		require.Equal(t, 120, cfg.Dataset.DownloadTimeout)
		require.Empty(t, cfg.Redis.URL)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, 8000, cfg.Server.Port)
		require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("TARGET_URL", "http://bench-1:8000/v1/completions")
		t.Setenv("TARGET_TIMEOUT", "60")
		t.Setenv("MODEL_ID", "meta-llama/Llama-3.1-8B")
		t.Setenv("CLIENT", "openai")
		t.Setenv("CONCURRENCY", "4")
		t.Setenv("INPUT_SEQ_LEN", "128")
		t.Setenv("OUTPUT_SEQ_LEN", "64")
		t.Setenv("NUM_REQUESTS", "50")
		t.Setenv("WARMUP_REQUESTS", "0")
		t.Setenv("REQUEST_RATE", "2.5")
		t.Setenv("DATASET", "synthetic")
		t.Setenv("REDIS_URL", "redis://cache:6379/1")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, "http://bench-1:8000/v1/completions", cfg.Target.URL)
		require.Equal(t, "http://bench-1:8000/v1/completions", cfg.OpenAI.URL)
		require.Equal(t, 60, cfg.Target.Timeout)
		require.Equal(t, "openai", cfg.Load.Client)
		require.Equal(t, "synthetic", cfg.Dataset.Dataset)
		require.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
		require.Equal(t, domain.RunConfig{
			ModelID:        "meta-llama/Llama-3.1-8B",
			Concurrency:    4,
			InputTokens:    128,
			OutputTokens:   64,
			Requests:       50,
			WarmupRequests: 0,
			RequestRate:    2.5,
		}, cfg.Load.RunConfig())
	})

	t.Run("should panic on malformed values", func(t *testing.T) {
		t.Setenv("CONCURRENCY", "many")

		require.Panics(t, func() { config.Load() })
	})
}

func TestLoadConfig_Validate(t *testing.T) {
	t.Run("should require a model id", func(t *testing.T) {
		err := config.LoadConfig{Concurrency: 4}.Validate()

		require.ErrorIs(t, err, config.ErrModelNotConfigured)
	})

	t.Run("should accept a configured model", func(t *testing.T) {
		require.NoError(t, config.LoadConfig{ModelID: "m"}.Validate())
	})
}

func TestParseDependenciesConfig(t *testing.T) {
	os.Clearenv()
	cfg := config.Load()

	deps := config.ParseDependenciesConfig(cfg)

	require.Same(t, &cfg.Load, deps.Load)
	require.Same(t, &cfg.Target, deps.Target)
	require.Same(t, &cfg.Redis, deps.Redis)
	require.Same(t, &cfg.Server, deps.Server)
}
