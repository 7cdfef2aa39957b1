// Package completions reads streamed responses from an OpenAI-compatible
// /v1/completions endpoint over plain HTTP. Every content fragment is
// timestamped on arrival; malformed chunks are skipped rather than fatal.
package completions

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
)

const (
	streamerName = "completions"

	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	// errorPreviewBytes bounds how much of a failed response body is kept.
	errorPreviewBytes = 200
)

// Client implements domain.Streamer against a completions endpoint.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new completions client. A non-positive timeout disables the ceiling.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("target URL is required")
	}

	return &Client{
		url:    config.URL,
		apiKey: config.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
		now: time.Now,
	}, nil
}

// completionRequest is the wire body of a streaming completion call.
type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type completionChunk struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Name returns the streamer identifier.
func (c *Client) Name() string {
	return streamerName
}

// Stream sends a streaming completion request and reports every content fragment.
func (c *Client) Stream(ctx context.Context, spec *domain.RequestSpec, onEvent func(domain.StreamEvent)) error {
	if spec == nil {
		return errors.New("request cannot be nil")
	}

	resp, err := c.executeStreamRequest(ctx, completionRequest{
		Model:       spec.ModelID,
		Prompt:      spec.Prompt,
		MaxTokens:   spec.MaxOutputTokens,
		Stream:      true,
		Temperature: 0.0,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.processStreamResponse(ctx, resp.Body, onEvent)
}

// executeStreamRequest creates and executes the HTTP request for streaming.
func (c *Client) executeStreamRequest(ctx context.Context, req completionRequest) (*http.Response, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorPreviewBytes))
		_ = resp.Body.Close()
		return nil, &domain.StatusError{StatusCode: resp.StatusCode, Preview: string(preview)}
	}

	return resp, nil
}

// processStreamResponse reads the body line by line until [DONE] or EOF.
func (c *Client) processStreamResponse(ctx context.Context, body io.Reader, onEvent func(domain.StreamEvent)) error {
	logger := observability.FromContext(ctx)
	reader := bufio.NewReader(body)

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if done := c.handleLine(line, onEvent, logger); done {
				return nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read stream: %w", err)
		}
	}
}

// handleLine processes one stream line and reports whether the stream ended.
func (c *Client) handleLine(
	line string,
	onEvent func(domain.StreamEvent),
	logger *zap.Logger,
) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, dataPrefix) {
		return false
	}

	payload := line[len(dataPrefix):]
	if payload == doneSentinel {
		return true
	}

	var chunk completionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		logger.Debug("skipping malformed stream chunk", observability.Error(err))
		return false
	}

	if len(chunk.Choices) == 0 || chunk.Choices[0].Text == "" {
		return false
	}

	onEvent(domain.StreamEvent{Text: chunk.Choices[0].Text, ReceivedAt: c.now()})
	return false
}
