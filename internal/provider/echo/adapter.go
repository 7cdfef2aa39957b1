// Package echo provides an in-process streamer that echoes the prompt back
// word by word. It implements the domain.Streamer interface without any
// network I/O and also drives the fake completions endpoint.
package echo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
)

const (
	providerName = "echo"
)

// Provider implements the domain.Streamer interface for dry runs.
type Provider struct {
	name       string
	chunkDelay time.Duration
}

// NewProvider creates a new echo provider.
func NewProvider(cfg Config) *Provider {
	delay := time.Duration(cfg.ChunkDelayMs) * time.Millisecond
	if delay < 0 {
		delay = 0
	}

	return &Provider{
		name:       providerName,
		chunkDelay: delay,
	}
}

// Stream emits the prompt's words as content fragments, at most spec.MaxOutputTokens of them.
func (p *Provider) Stream(ctx context.Context, spec *domain.RequestSpec, onEvent func(domain.StreamEvent)) error {
	if spec == nil {
		return errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("streaming echo request")

	for _, token := range Tokens(spec.Prompt, spec.MaxOutputTokens) {
		if p.chunkDelay > 0 {
			timer := time.NewTimer(p.chunkDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		onEvent(domain.StreamEvent{Text: token, ReceivedAt: time.Now()})
	}

	return nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Tokens splits a prompt into word fragments, keeping the separating space on
// all but the last. A non-positive limit yields no tokens.
func Tokens(prompt string, limit int) []string {
	words := strings.Fields(prompt)
	if limit < len(words) {
		if limit < 0 {
			limit = 0
		}
		words = words[:limit]
	}

	tokens := make([]string, len(words))
	for i, word := range words {
		if i < len(words)-1 {
			word += " "
		}
		tokens[i] = word
	}
	return tokens
}
