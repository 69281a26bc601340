// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vodplay_upstream_breaker_state",
		Help: "Widget upstream breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"upstream"})

	upstreamBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_upstream_breaker_trips_total",
		Help: "Widget upstream breaker transitions to open",
	}, []string{"upstream", "reason"})
)

var breakerStateValue = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// SetCircuitBreakerState publishes the breaker state of a widget upstream.
func SetCircuitBreakerState(upstream, state string) {
	v, ok := breakerStateValue[state]
	if !ok {
		return
	}
	upstreamBreakerState.WithLabelValues(upstream).Set(v)
}

// RecordCircuitBreakerTrip counts a transition to open.
func RecordCircuitBreakerTrip(upstream, reason string) {
	upstreamBreakerTrips.WithLabelValues(upstream, reason).Inc()
}
