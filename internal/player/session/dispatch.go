// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"github.com/ManuGH/vodplay/internal/domain/playback"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/player/ports"
)

// Dispatch is the only entry point for engine events. Events of any session
// other than the live engine session are dropped.
func (a *Adapter) Dispatch(ev ports.EngineEvent) {
	var out notifier
	a.mu.Lock()
	if ev.SessionID == "" || ev.SessionID != a.sessionID || a.engine == nil {
		a.mu.Unlock()
		metrics.IncStaleEvent(metrics.SourceEngine)
		a.logger.Debug().Str(xglog.FieldSessionID, ev.SessionID).Str("engine_event", string(ev.Kind)).Msg("dropping stale engine event")
		return
	}

	switch ev.Kind {
	case ports.EngineManifestParsed:
		out = a.manifestParsedLocked(ev.Levels)
	case ports.EngineError:
		out = a.errorLocked(ev.Error)
	default:
		a.logger.Debug().Str("engine_event", string(ev.Kind)).Msg("ignoring unknown engine event")
	}
	a.mu.Unlock()
	out.run()
}

func (a *Adapter) manifestParsedLocked(levels []playback.Quality) notifier {
	var out notifier
	if !a.levelsReported {
		a.levelsReported = true
		qualities := make([]playback.Quality, len(levels))
		for i, l := range levels {
			qualities[i] = playback.Quality{Height: l.Height, Bitrate: l.Bitrate, Level: i}
		}
		out = append(out, func() { a.sink.OnQualities(qualities) })
	}
	a.ready = true
	out = append(out, a.sink.OnReady)

	if err := a.engine.StartLoad(); err != nil {
		a.logger.Warn().Err(err).Str(xglog.FieldSessionID, a.sessionID).Msg("engine failed to start loading")
	}
	return out
}

// errorLocked classifies an engine error: non-fatal ones are the engine's
// business, network and media failures get one bounded recovery path, the
// rest surface.
func (a *Adapter) errorLocked(e playback.StreamError) notifier {
	logger := a.logger.With().
		Str(xglog.FieldSessionID, a.sessionID).
		Str(xglog.FieldErrorType, e.Type).
		Str(xglog.FieldErrorDetail, e.Details).
		Logger()

	if !e.Fatal {
		metrics.IncEngineError(e.Type, metrics.OutcomeSwallowed)
		logger.Debug().Msg("non-fatal engine error")
		return nil
	}

	switch e.Type {
	case playback.ErrorTypeNetwork:
		if a.networkRecoveries < a.cfg.MaxNetworkRecoveries {
			a.networkRecoveries++
			metrics.IncEngineError(e.Type, metrics.OutcomeRecovered)
			logger.Warn().Str("event", "session.network_retry").Int("attempt", a.networkRecoveries).Dur("delay", a.cfg.NetworkRetryDelay).Msg("fatal network error, retrying load")
			gen := a.gen
			a.timers = append(a.timers, a.clock.AfterFunc(a.cfg.NetworkRetryDelay, func() { a.retryLoad(gen, e) }))
			return nil
		}
	case playback.ErrorTypeMedia:
		if !a.mediaRecovered {
			a.mediaRecovered = true
			metrics.IncEngineError(e.Type, metrics.OutcomeRecovered)
			metrics.IncEngineRecovery("media")
			logger.Warn().Str("event", "session.media_recover").Msg("fatal media error, recovering")
			if err := a.engine.RecoverMediaError(); err != nil {
				logger.Error().Err(err).Str("event", "session.fatal").Msg("media error recovery failed")
				return a.surfaceLocked(e)
			}
			return nil
		}
	}

	logger.Error().Str("event", "session.fatal").Msg("fatal playback error")
	return a.surfaceLocked(e)
}

// retryLoad runs on the clock's goroutine. It restarts loading only if the
// session that scheduled it is still live; a failed restart surfaces cause.
func (a *Adapter) retryLoad(gen uint64, cause playback.StreamError) {
	var out notifier
	a.mu.Lock()
	if gen != a.gen || a.engine == nil {
		a.mu.Unlock()
		metrics.IncStaleEvent("timer")
		return
	}
	metrics.IncEngineRecovery("network")
	if err := a.engine.StartLoad(); err != nil {
		a.logger.Error().Err(err).Str("event", "session.fatal").Str(xglog.FieldSessionID, a.sessionID).Msg("network recovery failed to restart loading")
		out = a.surfaceLocked(cause)
	}
	a.mu.Unlock()
	out.run()
}
