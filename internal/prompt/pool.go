// Package prompt builds the immutable prompt pool a benchmark run draws from.
package prompt

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/davidbz/streambench/internal/observability"
)

const (
	// DatasetSynthetic repeats a fixed word to the target length.
	DatasetSynthetic = "synthetic"
	// DatasetShareGPT uses human turns from the ShareGPT conversation dump.
	DatasetShareGPT = "sharegpt"

	synthesizedWord = "Hello "

	// minShareGPTPrompts is the smallest filtered pool worth using.
	minShareGPTPrompts = 10
)

// Pool is a frozen set of prompts. Draw is safe for concurrent use.
type Pool struct {
	prompts []string
}

// NewPool creates a pool from the given prompts. An empty input yields a pool
// holding a single empty prompt so Draw never fails.
func NewPool(prompts []string) *Pool {
	frozen := make([]string, len(prompts))
	copy(frozen, prompts)
	if len(frozen) == 0 {
		frozen = []string{""}
	}
	return &Pool{prompts: frozen}
}

// Draw returns a uniformly random prompt.
func (p *Pool) Draw() string {
	return p.prompts[rand.IntN(len(p.prompts))]
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.prompts)
}

// Synthetic returns the fallback prompt of inputLen repeated words.
func Synthetic(inputLen int) string {
	if inputLen < 0 {
		inputLen = 0
	}
	return strings.Repeat(synthesizedWord, inputLen)
}

// Build creates the prompt pool for the configured dataset. ShareGPT load
// failures and undersized pools fall back to the synthetic prompt.
func Build(ctx context.Context, cfg *Config, inputLen int) *Pool {
	logger := observability.FromContext(ctx)

	if cfg == nil || cfg.Dataset == DatasetSynthetic {
		logger.Info("using synthetic prompts", observability.Int("input_seq_len", inputLen))
		return NewPool([]string{Synthetic(inputLen)})
	}

	prompts, err := LoadShareGPT(ctx, cfg, inputLen)
	switch {
	case err != nil:
		logger.Warn("failed to load ShareGPT dataset, falling back to synthetic prompts", observability.Error(err))
	case len(prompts) < minShareGPTPrompts:
		logger.Warn("too few ShareGPT prompts matched, falling back to synthetic prompts",
			observability.Int("matched", len(prompts)))
	default:
		logger.Info("prompt pool ready", observability.Int("prompts", len(prompts)))
		return NewPool(prompts)
	}

	return NewPool([]string{Synthetic(inputLen)})
}
