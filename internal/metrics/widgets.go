// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	widgetFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_widget_fetch_total",
		Help: "Widget fetch attempts by widget and outcome",
	}, []string{"widget", "outcome"}) // outcome=success|error|config_error|throttled|circuit_open

	widgetFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vodplay_widget_fetch_duration_seconds",
		Help:    "Upstream latency of widget fetches",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"widget"})

	widgetLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vodplay_widget_last_success_timestamp_seconds",
		Help: "Unix time of the last successful widget fetch",
	}, []string{"widget"})

	rateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_ratelimit_exceeded_total",
		Help: "Total rate limit rejections",
	}, []string{"limit_type", "scope"})
)

// IncRateLimited counts one rejected request.
func IncRateLimited(limitType, scope string) {
	rateLimitExceeded.WithLabelValues(limitType, scope).Inc()
}

// RecordWidgetFetch records one fetch attempt; duration is ignored when zero.
func RecordWidgetFetch(widget, outcome string, duration time.Duration) {
	widgetFetchTotal.WithLabelValues(widget, outcome).Inc()
	if duration > 0 {
		widgetFetchDuration.WithLabelValues(widget).Observe(duration.Seconds())
	}
	if outcome == "success" {
		widgetLastSuccess.WithLabelValues(widget).SetToCurrentTime()
	}
}
