// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireflow_suggestions_total",
			Help: "Company suggestions served, by outcome and fallback reason",
		},
		[]string{"outcome", "reason"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hireflow_inference_duration_seconds",
			Help:    "Latency of inference provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"model", "status"},
	)

	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireflow_emails_total",
			Help: "Application emails handled, by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireflow_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		},
		[]string{"route", "code"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireflow_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// Suggestion outcomes.
const (
	OutcomeLive     = "live"
	OutcomeFallback = "fallback"
)

// Email outcomes.
const (
	OutcomeSent      = "sent"
	OutcomeSimulated = "simulated"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)
