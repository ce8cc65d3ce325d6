// Package metrics registers the Prometheus metrics used by the agentry
// server. Metrics are registered with the default registry at package
// init, so anything the server imports is visible on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assist-level counters and histograms.
var (
	// AssistsTotal counts completed assist requests labelled by agent,
	// classified intent ("verse", "token", "greeting", "chat", "error"),
	// and outcome ("ok", "error").
	AssistsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentry_assists_total",
			Help: "Total number of assist requests processed.",
		},
		[]string{"agent", "intent", "status"},
	)

	// AssistDuration observes end-to-end assist latency in seconds, from
	// envelope decode to the done event.
	AssistDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentry_assist_duration_seconds",
			Help:    "End-to-end assist request duration in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"agent"},
	)

	// EventsTotal counts emitted stream events by agent and event name.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentry_events_total",
			Help: "Total stream events emitted to clients.",
		},
		[]string{"agent", "event"},
	)

	// UpstreamDuration observes the latency of calls to external services
	// ("bible_api", "solsniffer", or the LLM provider name).
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentry_upstream_duration_seconds",
			Help:    "Upstream request duration in seconds by service.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	// CacheOps counts disk cache operations by agent and outcome
	// ("hit", "miss", "write").
	CacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentry_cache_operations_total",
			Help: "Disk cache operations by outcome.",
		},
		[]string{"agent", "op"},
	)

	// TokensInput counts total prompt tokens sent to LLM providers.
	TokensInput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentry_tokens_input_total",
			Help: "Total prompt tokens sent to LLM providers.",
		},
		[]string{"provider", "model"},
	)

	// TokensOutput counts total completion tokens received from LLM providers.
	TokensOutput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentry_tokens_output_total",
			Help: "Total completion tokens received from LLM providers.",
		},
		[]string{"provider", "model"},
	)
)
