// Package metrics registers the process-wide prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooking_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cooking_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cooking_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cooking_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	PanicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cooking_panic_recoveries_total",
			Help: "Total number of recovered handler panics",
		},
	)

	// Domain metrics
	parseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooking_parse_total",
			Help: "Recipe parses by parser and outcome",
		},
		[]string{"parser", "outcome"},
	)

	aiFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooking_ai_fallbacks_total",
			Help: "AI parses that fell back to the heuristic parser, by reason",
		},
		[]string{"reason"},
	)

	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooking_conversions_total",
			Help: "Ingredient conversions by target system",
		},
		[]string{"system", "converted"},
	)
)

// ObserveParse counts one parse. outcome is "ok", "cached" or "fallback".
func ObserveParse(parser, outcome string) {
	parseTotal.WithLabelValues(parser, outcome).Inc()
}

// ObserveFallback counts one AI fallback.
func ObserveFallback(reason string) {
	aiFallbacks.WithLabelValues(reason).Inc()
}

// ObserveConversion counts one conversion request.
func ObserveConversion(system string, converted bool) {
	conversionsTotal.WithLabelValues(system, strconv.FormatBool(converted)).Inc()
}
