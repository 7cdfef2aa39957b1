package openai

// Config contains settings for the SDK-backed streamer.
// All fields map to OpenAI SDK options:
//   - URL: full completions URL; the SDK base URL is derived from it
//   - APIKey: Maps to option.WithAPIKey()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
//
// Retries are always disabled; a failed request is recorded once.
type Config struct {
	URL     string `env:"TARGET_URL"     envDefault:"http://localhost:8000/v1/completions"`
	APIKey  string `env:"TARGET_API_KEY"`
	Timeout int    `env:"TARGET_TIMEOUT" envDefault:"300"`
}
