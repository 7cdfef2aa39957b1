package completions_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/streambench/internal/domain"
	"github.com/davidbz/streambench/internal/provider/completions"
)

func newSSEServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string) *completions.Client {
	t.Helper()
	client, err := completions.NewClient(completions.Config{URL: url, Timeout: 5})
	require.NoError(t, err)
	return client
}

func collect(t *testing.T, client *completions.Client) ([]domain.StreamEvent, error) {
	t.Helper()
	var events []domain.StreamEvent
	err := client.Stream(context.Background(), &domain.RequestSpec{
		Prompt:          "Hello",
		MaxOutputTokens: 16,
		ModelID:         "test-model",
	}, func(ev domain.StreamEvent) {
		events = append(events, ev)
	})
	return events, err
}

func TestNewClient(t *testing.T) {
	t.Run("should require a target URL", func(t *testing.T) {
		client, err := completions.NewClient(completions.Config{})

		require.Error(t, err)
		require.Nil(t, client)
		require.Contains(t, err.Error(), "target URL is required")
	})

	t.Run("should report its name", func(t *testing.T) {
		require.Equal(t, "completions", newClient(t, "http://localhost").Name())
	})
}

func TestClient_Stream(t *testing.T) {
	t.Run("should record one event per content fragment", func(t *testing.T) {
		srv := newSSEServer(t,
			`data: {"choices":[{"text":"Hel"}]}`,
			"",
			`data: {"choices":[{"text":"lo"}]}`,
			"",
			`data: [DONE]`,
		)

		events, err := collect(t, newClient(t, srv.URL))

		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, "Hel", events[0].Text)
		require.Equal(t, "lo", events[1].Text)
		require.False(t, events[1].ReceivedAt.Before(events[0].ReceivedAt))
	})

	t.Run("should end normally on [DONE] without chunks", func(t *testing.T) {
		srv := newSSEServer(t, `data: [DONE]`)

		events, err := collect(t, newClient(t, srv.URL))

		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("should stop reading at [DONE]", func(t *testing.T) {
		srv := newSSEServer(t,
			`data: {"choices":[{"text":"a"}]}`,
			`data: [DONE]`,
			`data: {"choices":[{"text":"late"}]}`,
		)

		events, err := collect(t, newClient(t, srv.URL))

		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("should skip a malformed chunk and keep reading", func(t *testing.T) {
		srv := newSSEServer(t,
			`data: {"choices":[{"text":`,
			`data: {"choices":[{"text":"ok"}]}`,
			`data: [DONE]`,
		)

		events, err := collect(t, newClient(t, srv.URL))

		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "ok", events[0].Text)
	})

	t.Run("should ignore lines without the data prefix and empty deltas", func(t *testing.T) {
		srv := newSSEServer(t,
			`: keep-alive`,
			`event: message`,
			`data:{"choices":[{"text":"no space"}]}`,
			`data: {"choices":[]}`,
			`data: {"choices":[{"text":""}]}`,
			`data: {"id":"x"}`,
			`data: {"choices":[{"text":"kept"}]}`,
			`data: [DONE]`,
		)

		events, err := collect(t, newClient(t, srv.URL))

		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "kept", events[0].Text)
	})

	t.Run("should treat end of body without [DONE] as normal", func(t *testing.T) {
		srv := newSSEServer(t, `data: {"choices":[{"text":"a"}]}`)

		events, err := collect(t, newClient(t, srv.URL))

		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("should send a deterministic streaming body", func(t *testing.T) {
		var body map[string]interface{}
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&body)
			fmt.Fprint(w, "data: [DONE]\n")
		}))
		defer srv.Close()

		client, err := completions.NewClient(completions.Config{URL: srv.URL, APIKey: "secret", Timeout: 5})
		require.NoError(t, err)
		_, err = collect(t, client)

		require.NoError(t, err)
		require.Equal(t, "Bearer secret", auth)
		require.Equal(t, "test-model", body["model"])
		require.Equal(t, "Hello", body["prompt"])
		require.EqualValues(t, 16, body["max_tokens"])
		require.Equal(t, true, body["stream"])
		require.Contains(t, body, "temperature")
		require.EqualValues(t, 0, body["temperature"])
	})
}

func TestClient_Stream_Failures(t *testing.T) {
	t.Run("should return a status error with a bounded preview", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, strings.Repeat("x", 1000))
		}))
		defer srv.Close()

		events, err := collect(t, newClient(t, srv.URL))

		var statusErr *domain.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		require.Len(t, statusErr.Preview, 200)
		require.Empty(t, events)
	})

	t.Run("should fail when the connection drops mid-stream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hijacker, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, buf, err := hijacker.Hijack()
			require.NoError(t, err)
			defer conn.Close()

			chunk := "data: {\"choices\":[{\"text\":\"a\"}]}\n"
			fmt.Fprint(buf, "HTTP/1.1 200 OK\r\nContent-Type: text/event-stream\r\nTransfer-Encoding: chunked\r\n\r\n")
			fmt.Fprintf(buf, "%x\r\n%s\r\n", len(chunk), chunk)
			_ = buf.Flush()
		}))
		defer srv.Close()

		events, err := collect(t, newClient(t, srv.URL))

		require.Error(t, err)
		require.Len(t, events, 1)
	})

	t.Run("should fail when the endpoint is unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := collect(t, newClient(t, url))

		require.Error(t, err)
		require.Contains(t, err.Error(), "request failed")
	})

	t.Run("should fail once the request timeout elapses", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "data: {\"choices\":[{\"text\":\"a\"}]}\n")
			w.(http.Flusher).Flush()
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer srv.Close()
		defer close(release)

		client, err := completions.NewClient(completions.Config{URL: srv.URL, Timeout: 1})
		require.NoError(t, err)

		start := time.Now()
		_, err = collect(t, client)

		require.Error(t, err)
		require.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("should reject a nil request", func(t *testing.T) {
		err := newClient(t, "http://localhost").Stream(context.Background(), nil, func(domain.StreamEvent) {})

		require.Error(t, err)
		require.Contains(t, err.Error(), "request cannot be nil")
	})
}
