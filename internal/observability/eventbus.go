package observability

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// EventBus implements the EventPublisher interface on top of the context logger.
type EventBus struct {
	logger *zap.Logger
}

// NewEventBus creates a new event bus. A nil logger falls back to the global one.
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		logger: logger,
	}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	logger := FromContext(ctx)
	if e.logger != nil {
		logger = e.logger
	}

	// Stable field order keeps progress lines diffable between runs.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, data[k]))
	}

	logger.Info(eventType, fields...)
}
