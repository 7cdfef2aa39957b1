package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
	"github.com/davidbz/streambench/internal/prompt"
	"github.com/davidbz/streambench/internal/provider/completions"
	"github.com/davidbz/streambench/internal/provider/echo"
	"github.com/davidbz/streambench/internal/provider/openai"
	"github.com/davidbz/streambench/internal/store/redis"
)

// Config represents the benchmark configuration.
type Config struct {
	Load    LoadConfig
	Target  completions.Config
	OpenAI  openai.Config
	Echo    echo.Config
	Dataset prompt.Config
	Redis   redis.Config
	Log     observability.LogConfig
	Server  ServerConfig
	CORS    CORSConfig
}

// LoadConfig describes the shape of the generated load.
type LoadConfig struct {
	ModelID        string  `env:"MODEL_ID"`
	Client         string  `env:"CLIENT"          envDefault:"completions"`
	Concurrency    int     `env:"CONCURRENCY"     envDefault:"16"`
	InputSeqLen    int     `env:"INPUT_SEQ_LEN"   envDefault:"512"`
	OutputSeqLen   int     `env:"OUTPUT_SEQ_LEN"  envDefault:"256"`
	NumRequests    int     `env:"NUM_REQUESTS"    envDefault:"200"`
	WarmupRequests int     `env:"WARMUP_REQUESTS" envDefault:"10"`
	RequestRate    float64 `env:"REQUEST_RATE"    envDefault:"0"`
	RunID          string  `env:"RUN_ID"`
}

// ErrModelNotConfigured indicates MODEL_ID was not set.
var ErrModelNotConfigured = errors.New("MODEL_ID is required")

// Validate reports settings the run cannot start without.
func (l LoadConfig) Validate() error {
	if l.ModelID == "" {
		return ErrModelNotConfigured
	}
	return nil
}

// RunConfig converts the load settings to the plain values the core consumes.
func (l LoadConfig) RunConfig() domain.RunConfig {
	return domain.RunConfig{
		ModelID:        l.ModelID,
		Concurrency:    l.Concurrency,
		InputTokens:    l.InputSeqLen,
		OutputTokens:   l.OutputSeqLen,
		Requests:       l.NumRequests,
		WarmupRequests: l.WarmupRequests,
		RequestRate:    l.RequestRate,
	}
}

// ServerConfig contains settings of the fake completions endpoint.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8000"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"300"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
// Sub-configs sharing the type name Config need named fields.
type DepConfig struct {
	dig.Out

	Load    *LoadConfig
	Target  *completions.Config
	OpenAI  *openai.Config
	Echo    *echo.Config
	Dataset *prompt.Config
	Redis   *redis.Config
	Log     *observability.LogConfig
	Server  *ServerConfig
	CORS    *CORSConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:     dig.Out{},
		Load:    &cfg.Load,
		Target:  &cfg.Target,
		OpenAI:  &cfg.OpenAI,
		Echo:    &cfg.Echo,
		Dataset: &cfg.Dataset,
		Redis:   &cfg.Redis,
		Log:     &cfg.Log,
		Server:  &cfg.Server,
		CORS:    &cfg.CORS,
	}
}
