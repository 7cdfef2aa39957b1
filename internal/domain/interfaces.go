package domain

import "context"

// Streamer performs one streaming completion exchange.
type Streamer interface {
	// Stream issues the request and calls onEvent once per content fragment, in
	// arrival order, on the calling goroutine. A nil error means the stream ended
	// normally ([DONE] or end of body).
	Stream(ctx context.Context, spec *RequestSpec, onEvent func(StreamEvent)) error

	// Name returns the streamer identifier.
	Name() string
}

// StreamerRegistry manages available streamers.
type StreamerRegistry interface {
	// Register adds a streamer to the registry.
	Register(ctx context.Context, streamer Streamer) error

	// Get retrieves a streamer by name.
	Get(ctx context.Context, name string) (Streamer, error)

	// List returns all available streamers.
	List(ctx context.Context) ([]string, error)
}

// PromptSource supplies prompts from an immutable pool.
type PromptSource interface {
	// Draw returns one prompt. Safe for concurrent use.
	Draw() string

	// Len returns the pool size.
	Len() int
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// ReportSink persists a finished report.
type ReportSink interface {
	// Save stores the report under the given run ID.
	Save(ctx context.Context, runID string, report *Report) error
}
