package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/streambench/internal/domain"
)

// Registry implements the StreamerRegistry interface.
type Registry struct {
	mu        sync.RWMutex
	streamers map[string]domain.Streamer
}

// NewRegistry creates a new streamer registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		streamers: make(map[string]domain.Streamer),
	}
}

// Register adds a streamer to the registry.
func (r *Registry) Register(_ context.Context, streamer domain.Streamer) error {
	if streamer == nil {
		return errors.New("streamer cannot be nil")
	}

	name := streamer.Name()
	if name == "" {
		return errors.New("streamer name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.streamers[name]; exists {
		return fmt.Errorf("streamer %s already registered", name)
	}

	r.streamers[name] = streamer

	return nil
}

// Get retrieves a streamer by name.
func (r *Registry) Get(_ context.Context, name string) (domain.Streamer, error) {
	if name == "" {
		return nil, errors.New("streamer name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	streamer, exists := r.streamers[name]
	if !exists {
		return nil, fmt.Errorf("streamer %s not found", name)
	}

	return streamer, nil
}

// List returns all registered streamer names in sorted order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.streamers))
	for name := range r.streamers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
