// Package metrics exposes the Prometheus collectors of the bridge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelRoute},
	)
)

// Skill metrics
var (
	WebhookTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alice_webhook_turns_total",
			Help: "Webhook turns by dispatcher outcome",
		},
		[]string{LabelOutcome},
	)

	LinkTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alice_link_transitions_total",
			Help: "Account-linking state machine transitions",
		},
		[]string{LabelTransition},
	)

	StateConsumes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alice_state_consume_total",
			Help: "Correlation token consume attempts by kind and result",
		},
		[]string{LabelKind, LabelResult},
	)

	TodoistRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alice_todoist_requests_total",
			Help: "Todoist task-creation calls by outcome",
		},
		[]string{LabelOutcome},
	)
)
