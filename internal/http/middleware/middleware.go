package middleware

import (
	"net/http"

	"github.com/davidbz/streambench/internal/config"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares; the first one is the outermost wrapper.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// BuildMiddlewareChain composes the endpoint's middleware chain.
// Order matters: Recover -> CORS -> Trace -> Instrument.
func BuildMiddlewareChain(corsConfig *config.CORSConfig, recorder RequestRecorder) Middleware {
	return Chain(
		Recover(),
		CORS(corsConfig),
		Trace(),
		Instrument(recorder),
	)
}
