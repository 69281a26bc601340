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

// notifier queues sink calls until the adapter lock is released.
type notifier []func()

func (n notifier) run() {
	for _, f := range n {
		f()
	}
}

// Load tears the current session down and starts one for url. An empty url
// leaves the adapter idle.
func (a *Adapter) Load(url string) {
	var out notifier
	a.mu.Lock()
	a.teardownLocked()
	if url != "" {
		out = a.startLocked(url)
	}
	a.mu.Unlock()
	out.run()
}

// Destroy releases the live session. It is idempotent.
func (a *Adapter) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownLocked()
}

// SetQuality forwards a rendition choice to the engine; the native path has
// no rendition selector.
func (a *Adapter) SetQuality(level int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return
	}
	if err := a.engine.SetLevel(level); err != nil {
		a.logger.Warn().Err(err).Str(xglog.FieldSessionID, a.sessionID).Int(xglog.FieldLevel, level).Msg("engine rejected level change")
	}
}

func (a *Adapter) startLocked(url string) notifier {
	a.sessionID = a.newID()
	a.url = url
	logger := a.logger.With().
		Str(xglog.FieldSessionID, a.sessionID).
		Str(xglog.FieldStreamURL, url).
		Logger()

	switch {
	case a.el.CanPlayNative(ports.HLSMimeType):
		a.mode = ModeNative
		metrics.IncSessionStarted(string(ModeNative))
		if err := a.el.SetSource(a.sessionID, url); err != nil {
			logger.Error().Err(err).Str("event", "session.source_failed").Msg("failed to assign native source")
			return a.surfaceLocked(playback.StreamError{Type: playback.ErrorTypeOther, Details: err.Error(), Fatal: true})
		}
		a.ready = true
		logger.Info().Str("event", "session.started").Str(xglog.FieldMode, string(ModeNative)).Msg("native playback session started")
		return notifier{a.sink.OnReady}

	case a.factory != nil && a.factory.Supported():
		eng, err := a.factory.New(a.sessionID, a.cfg.Engine)
		if err != nil {
			logger.Error().Err(err).Str("event", "session.engine_failed").Msg("failed to create streaming engine")
			return a.surfaceLocked(playback.StreamError{Type: playback.ErrorTypeOther, Details: err.Error(), Fatal: true})
		}
		a.engine = eng
		a.mode = ModeEngine
		metrics.IncSessionStarted(string(ModeEngine))
		if err := eng.LoadSource(url); err != nil {
			logger.Error().Err(err).Msg("engine rejected source")
			return a.surfaceLocked(playback.StreamError{Type: playback.ErrorTypeOther, Details: err.Error(), Fatal: true})
		}
		if err := eng.AttachMedia(); err != nil {
			logger.Error().Err(err).Msg("engine failed to attach media")
			return a.surfaceLocked(playback.StreamError{Type: playback.ErrorTypeOther, Details: err.Error(), Fatal: true})
		}
		logger.Info().Str("event", "session.started").Str(xglog.FieldMode, string(ModeEngine)).Msg("engine playback session started")
		return nil

	default:
		metrics.IncSessionStarted("unsupported")
		logger.Warn().Str("event", "session.unsupported").Msg("no playback path for stream")
		return a.surfaceLocked(playback.StreamError{
			Type:    playback.ErrorTypeUnsupported,
			Details: UnsupportedMessage,
			Fatal:   true,
		})
	}
}

// teardownLocked cancels timers, destroys the engine and invalidates the
// session id, so nothing produced by the old session is honoured afterwards.
func (a *Adapter) teardownLocked() {
	a.gen++
	for _, t := range a.timers {
		t.Stop()
	}
	a.timers = nil
	if a.engine != nil {
		if err := a.engine.Destroy(); err != nil {
			a.logger.Warn().Err(err).Str(xglog.FieldSessionID, a.sessionID).Msg("engine destroy failed")
		}
		a.engine = nil
	}
	if a.sessionID != "" {
		a.logger.Debug().Str("event", "session.teardown").Str(xglog.FieldSessionID, a.sessionID).Msg("session torn down")
	}
	a.sessionID = ""
	a.url = ""
	a.mode = ModeNone
	a.ready = false
	a.levelsReported = false
	a.networkRecoveries = 0
	a.mediaRecovered = false
}

func (a *Adapter) surfaceLocked(err playback.StreamError) notifier {
	metrics.IncEngineError(err.Type, metrics.OutcomeSurfaced)
	return notifier{func() { a.sink.OnError(err) }}
}
