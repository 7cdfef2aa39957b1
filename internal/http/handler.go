package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/observability"
)

const defaultMaxTokens = 16

// completionRequest is the subset of the completions API the endpoint accepts.
type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type completionChunk struct {
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Handler serves a fake streaming completions API backed by a Streamer.
type Handler struct {
	streamer domain.Streamer
	metrics  *Metrics
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(streamer domain.Streamer, metrics *Metrics) *Handler {
	return &Handler{
		streamer: streamer,
		metrics:  metrics,
	}
}

// HandleCompletion streams the completion for a prompt as SSE data lines.
func (h *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if !req.Stream {
		http.Error(w, "only streaming requests are supported", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	ctx = observability.WithModel(ctx, req.Model)
	logger := observability.FromContext(ctx)
	logger.Debug("completion request received",
		zap.Int("max_tokens", req.MaxTokens),
		zap.Int("prompt_chars", len(req.Prompt)),
	)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.metrics.streamStarted()
	defer h.metrics.streamFinished()

	spec := &domain.RequestSpec{
		Prompt:          req.Prompt,
		MaxOutputTokens: req.MaxTokens,
		ModelID:         req.Model,
	}

	var writeErr error
	err := h.streamer.Stream(ctx, spec, func(ev domain.StreamEvent) {
		if writeErr != nil {
			return
		}
		data, _ := json.Marshal(completionChunk{Choices: []chunkChoice{{Text: ev.Text, Index: 0}}})
		if _, writeErr = fmt.Fprintf(w, "data: %s\n\n", data); writeErr != nil {
			return
		}
		flusher.Flush()
		h.metrics.tokenWritten()
	})
	if err != nil {
		// Headers are already sent; end the body without [DONE].
		logger.Warn("stream aborted", zap.Error(err))
		return
	}
	if writeErr != nil {
		logger.Debug("client went away", zap.Error(writeErr))
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":   "healthy",
		"streamer": h.streamer.Name(),
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}
