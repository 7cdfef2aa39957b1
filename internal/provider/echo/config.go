package echo

// Config contains echo streamer settings.
type Config struct {
	ChunkDelayMs int `env:"ECHO_CHUNK_DELAY_MS" envDefault:"10"`
}
