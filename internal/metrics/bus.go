// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a bus message never reached a subscriber.
const (
	DropFull     = "full"
	DropTimeout  = "timeout"
	DropCanceled = "canceled"
)

// BusDroppedTotal counts player commands and state nudges lost on the
// in-memory bus.
var BusDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vodplay_bus_dropped_total",
	Help: "Messages dropped on the in-memory bus by topic and reason",
}, []string{"topic", "reason"})

// IncBusDrop records one dropped message.
func IncBusDrop(topic, reason string) {
	if topic == "" {
		topic = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}
	BusDroppedTotal.WithLabelValues(topic, reason).Inc()
}
