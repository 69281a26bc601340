// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceMedia  = "media"
	SourceEngine = "engine"

	OutcomeRecovered = "recovered"
	OutcomeSurfaced  = "surfaced"
	OutcomeSwallowed = "swallowed"
)

var (
	StorePersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_store_persist_failures_total",
		Help: "Durable writes of player state that failed (in-memory value kept)",
	}, []string{"key"})

	StaleEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_stale_events_total",
		Help: "Events dropped because they belong to a torn-down session",
	}, []string{"source"}) // source=media|engine|timer

	EngineErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_engine_errors_total",
		Help: "Streaming engine errors by type and handling outcome",
	}, []string{"type", "outcome"})

	EngineRecoveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_engine_recoveries_total",
		Help: "Automatic recovery attempts issued to the streaming engine",
	}, []string{"kind"}) // kind=network|media

	MediaCommandFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_media_command_failures_total",
		Help: "Native media commands that failed (state left unchanged)",
	}, []string{"command"})

	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodplay_sessions_started_total",
		Help: "Playback sessions started by mode",
	}, []string{"mode"}) // mode=native|engine|unsupported

	ActiveViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vodplay_active_views",
		Help: "Number of attached player views (0 or 1)",
	})
)

func IncStorePersistFailure(key string) { StorePersistFailures.WithLabelValues(key).Inc() }

func IncStaleEvent(source string) { StaleEventsTotal.WithLabelValues(source).Inc() }

func IncEngineError(errType, outcome string) {
	if errType == "" {
		errType = "unknown"
	}
	EngineErrorsTotal.WithLabelValues(errType, outcome).Inc()
}

func IncEngineRecovery(kind string) { EngineRecoveriesTotal.WithLabelValues(kind).Inc() }

func IncMediaCommandFailure(command string) { MediaCommandFailures.WithLabelValues(command).Inc() }

func IncSessionStarted(mode string) { SessionsStarted.WithLabelValues(mode).Inc() }

func SetViewAttached(attached bool) {
	if attached {
		ActiveViews.Set(1)
		return
	}
	ActiveViews.Set(0)
}
