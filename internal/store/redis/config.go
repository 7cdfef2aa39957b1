package redis

// Config contains report store settings. An empty URL disables the store.
type Config struct {
	URL       string `env:"REDIS_URL"`
	ReportTTL int    `env:"REDIS_REPORT_TTL" envDefault:"604800"`
}
