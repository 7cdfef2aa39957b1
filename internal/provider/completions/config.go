package completions

// Config contains the target endpoint settings for the raw completions client.
type Config struct {
	URL     string `env:"TARGET_URL"     envDefault:"http://localhost:8000/v1/completions"`
	APIKey  string `env:"TARGET_API_KEY"`
	Timeout int    `env:"TARGET_TIMEOUT" envDefault:"300"`
}
