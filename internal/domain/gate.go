package domain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate bounds the number of requests in flight. Waiters are admitted in arrival order.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

// NewGate creates a gate admitting at most capacity holders. Capacity below one is raised to one.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}

	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// Acquire blocks until a slot is free. The returned release func is safe to
// call more than once; only the first call frees the slot.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("gate acquire: %w", err)
	}

	current := g.inFlight.Add(1)
	for {
		peak := g.peak.Load()
		if current <= peak || g.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.inFlight.Add(-1)
			g.sem.Release(1)
		})
	}, nil
}

// Capacity returns the configured cap.
func (g *Gate) Capacity() int {
	return int(g.capacity)
}

// InFlight returns the number of current holders.
func (g *Gate) InFlight() int {
	return int(g.inFlight.Load())
}

// Peak returns the highest number of simultaneous holders observed.
func (g *Gate) Peak() int {
	return int(g.peak.Load())
}
