// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bridge translates player commands into media element calls and
// native media events into store mutations.
//
// Commands are fire-and-forget: a failed platform call is logged and
// counted, and no state changes as a result.
package bridge

import (
	"context"
	"math"

	"github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/player/ports"
	"github.com/rs/zerolog"
)

// Command names used in logs and metrics.
const (
	CmdPlay       = "play"
	CmdPause      = "pause"
	CmdSeek       = "seek"
	CmdVolume     = "volume"
	CmdMute       = "mute"
	CmdFullscreen = "fullscreen"
	CmdPiP        = "pip"
)

// StoreWriter is the subset of store mutations driven by native events.
// Every method has absolute set semantics.
type StoreWriter interface {
	Seek(t float64)
	UpdateDuration(d float64)
	SetPlaying(playing bool)
	UpdateBuffering(buffering bool)
	SetPiPActive(active bool)
	SetFullscreen(active bool)
	SetMuted(muted bool)
}

// Bridge wraps one media element.
type Bridge struct {
	el     ports.MediaElement
	store  StoreWriter
	logger zerolog.Logger

	onPosition    func(float64)
	onVolume      func(float64)
	onMute        func(bool)
	onInitialized func()
}

// Option configures a Bridge.
type Option func(*Bridge)

// OnPositionChanged is invoked after a successful SeekTo.
func OnPositionChanged(f func(float64)) Option {
	return func(b *Bridge) { b.onPosition = f }
}

// OnVolumeChanged is invoked with the clamped volume after a successful SetVolume.
func OnVolumeChanged(f func(float64)) Option {
	return func(b *Bridge) { b.onVolume = f }
}

// OnMuteChanged is invoked with the element's muted flag after ToggleMute.
func OnMuteChanged(f func(bool)) Option {
	return func(b *Bridge) { b.onMute = f }
}

// OnInitialized is invoked when an event shows the first frame is playable.
func OnInitialized(f func()) Option {
	return func(b *Bridge) { b.onInitialized = f }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

func New(el ports.MediaElement, store StoreWriter, opts ...Option) *Bridge {
	b := &Bridge{
		el:     el,
		store:  store,
		logger: log.WithComponent("bridge"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) fail(command string, err error) {
	metrics.IncMediaCommandFailure(command)
	b.logger.Warn().
		Err(err).
		Str("event", "media.command_failed").
		Str("command", command).
		Msg("media command failed")
}

func (b *Bridge) Play(ctx context.Context) {
	if err := b.el.Play(ctx); err != nil {
		b.fail(CmdPlay, err)
	}
}

func (b *Bridge) Pause() {
	if err := b.el.Pause(); err != nil {
		b.fail(CmdPause, err)
	}
}

// TogglePlayback plays when the element reports paused, pauses otherwise.
func (b *Bridge) TogglePlayback(ctx context.Context) {
	if b.el.Paused() {
		b.Play(ctx)
		return
	}
	b.Pause()
}

// SeekTo moves the native position and reports it to the position callback.
func (b *Bridge) SeekTo(t float64) {
	if t < 0 {
		t = 0
	}
	if err := b.el.SetCurrentTime(t); err != nil {
		b.fail(CmdSeek, err)
		return
	}
	if b.onPosition != nil {
		b.onPosition(t)
	}
}

// SetVolume clamps v to [0,1] before assigning it.
func (b *Bridge) SetVolume(v float64) {
	v = clampVolume(v)
	if err := b.el.SetVolume(v); err != nil {
		b.fail(CmdVolume, err)
		return
	}
	if b.onVolume != nil {
		b.onVolume(v)
	}
}

func (b *Bridge) ToggleMute() {
	if err := b.el.SetMuted(!b.el.Muted()); err != nil {
		b.fail(CmdMute, err)
		return
	}
	if b.onMute != nil {
		b.onMute(b.el.Muted())
	}
}

func (b *Bridge) ToggleFullscreen(ctx context.Context) {
	var err error
	if b.el.IsFullscreen() {
		err = b.el.ExitFullscreen(ctx)
	} else {
		err = b.el.RequestFullscreen(ctx)
	}
	if err != nil {
		b.fail(CmdFullscreen, err)
	}
}

// TogglePictureInPicture leaves an active PiP window, or enters one when the
// platform supports it.
func (b *Bridge) TogglePictureInPicture(ctx context.Context) {
	var err error
	switch {
	case b.el.PiPActive():
		err = b.el.ExitPiP(ctx)
	case b.el.PiPEnabled():
		err = b.el.RequestPiP(ctx)
	default:
		return
	}
	if err != nil {
		b.fail(CmdPiP, err)
	}
}

// SyncAudio mirrors the store's audio settings onto the element.
func (b *Bridge) SyncAudio(volume float64, muted bool) {
	volume = clampVolume(volume)
	if b.el.Volume() != volume {
		if err := b.el.SetVolume(volume); err != nil {
			b.fail(CmdVolume, err)
		}
	}
	if b.el.Muted() != muted {
		if err := b.el.SetMuted(muted); err != nil {
			b.fail(CmdMute, err)
		}
	}
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
