// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bridge

import (
	"math"

	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/player/ports"
)

// Dispatch maps one native media event to at most one store mutation.
// Flags are set from the state the event reports, never toggled, so
// duplicated or reordered echoes cannot invert them.
func (b *Bridge) Dispatch(ev ports.MediaEvent) {
	switch ev.Kind {
	case ports.MediaTimeUpdate:
		b.store.Seek(ev.CurrentTime)
	case ports.MediaDurationChange, ports.MediaLoadedMetadata:
		if !math.IsNaN(ev.Duration) && !math.IsInf(ev.Duration, 0) && ev.Duration >= 0 {
			b.store.UpdateDuration(ev.Duration)
		}
	case ports.MediaPlay:
		b.initialized()
		b.store.SetPlaying(true)
	case ports.MediaPause:
		b.store.SetPlaying(false)
	case ports.MediaWaiting:
		b.store.UpdateBuffering(true)
	case ports.MediaPlaying:
		b.store.UpdateBuffering(false)
	case ports.MediaLoadedData, ports.MediaCanPlay:
		b.initialized()
		b.store.UpdateBuffering(false)
	case ports.MediaEnterPiP:
		b.store.SetPiPActive(true)
	case ports.MediaLeavePiP:
		b.store.SetPiPActive(false)
	case ports.MediaFullscreen:
		b.store.SetFullscreen(ev.Active)
	case ports.MediaVolumeChange:
		b.store.SetMuted(ev.Muted)
	case ports.MediaCommandFailed:
		metrics.IncMediaCommandFailure(ev.Command)
		b.logger.Warn().
			Str("event", "media.command_rejected").
			Str("command", ev.Command).
			Str("reason", ev.Reason).
			Msg("platform rejected media command")
	default:
		b.logger.Debug().Str("media_event", string(ev.Kind)).Msg("ignoring unknown media event")
	}
}

func (b *Bridge) initialized() {
	if b.onInitialized != nil {
		b.onInitialized()
	}
}
