// Package openai provides a streamer backed by the official OpenAI SDK.
// It implements the domain.Streamer interface using the legacy completions
// API, which vLLM-compatible servers expose at /v1/completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
)

const (
	streamerName = "openai"

	// placeholderAPIKey satisfies the SDK for endpoints without authentication.
	placeholderAPIKey = "EMPTY"

	errorPreviewBytes = 200
)

// Provider implements the domain.Streamer interface for OpenAI-compatible endpoints.
type Provider struct {
	client openai.Client
	name   string
	now    func() time.Time
}

// NewProvider creates a new SDK-backed streamer.
func NewProvider(config Config) (*Provider, error) {
	baseURL, err := BaseURL(config.URL)
	if err != nil {
		return nil, err
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = placeholderAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Provider{
		client: openai.NewClient(opts...),
		name:   streamerName,
		now:    time.Now,
	}, nil
}

// BaseURL derives the SDK base URL from a full completions endpoint URL.
func BaseURL(target string) (string, error) {
	if target == "" {
		return "", errors.New("target URL is required")
	}

	base := strings.TrimSuffix(target, "/")
	base = strings.TrimSuffix(base, "/completions")
	return base + "/", nil
}

// Stream sends a streaming completion request and reports every content fragment.
func (p *Provider) Stream(ctx context.Context, spec *domain.RequestSpec, onEvent func(domain.StreamEvent)) error {
	if spec == nil {
		return errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling completions streaming API")

	stream := p.client.Completions.NewStreaming(ctx, p.toSDKParams(spec))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Text == "" {
			continue
		}
		onEvent(domain.StreamEvent{Text: chunk.Choices[0].Text, ReceivedAt: p.now()})
	}

	if err := stream.Err(); err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return &domain.StatusError{StatusCode: apiErr.StatusCode, Preview: truncate(apiErr.Error(), errorPreviewBytes)}
		}
		return fmt.Errorf("completions stream error: %w", err)
	}

	return nil
}

// Name returns the streamer identifier.
func (p *Provider) Name() string {
	return p.name
}

// toSDKParams converts a request spec to SDK CompletionNewParams.
func (p *Provider) toSDKParams(spec *domain.RequestSpec) openai.CompletionNewParams {
	return openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(spec.ModelID),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(spec.Prompt),
		},
		MaxTokens:   openai.Int(int64(spec.MaxOutputTokens)),
		Temperature: openai.Float(0.0),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
