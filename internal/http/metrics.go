package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the endpoint's own counters on /metrics.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	tokens        prometheus.Counter
	activeStreams prometheus.Gauge
}

// NewMetrics creates the metric set on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streambench",
			Subsystem: "endpoint",
			Name:      "requests_total",
			Help:      "Requests served, by path and status code.",
		}, []string{"path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "streambench",
			Subsystem: "endpoint",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving a request, including the full stream.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streambench",
			Subsystem: "endpoint",
			Name:      "streamed_tokens_total",
			Help:      "Content fragments written to streaming responses.",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "streambench",
			Subsystem: "endpoint",
			Name:      "active_streams",
			Help:      "Streaming responses currently in progress.",
		}),
	}

	m.registry.MustRegister(m.requests, m.latency, m.tokens, m.activeStreams)
	return m
}

// ObserveRequest implements middleware.RequestRecorder.
func (m *Metrics) ObserveRequest(path string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(path).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) streamStarted()  { m.activeStreams.Inc() }
func (m *Metrics) streamFinished() { m.activeStreams.Dec() }
func (m *Metrics) tokenWritten()   { m.tokens.Inc() }
