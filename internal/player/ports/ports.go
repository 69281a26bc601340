// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ports declares the platform boundary of the player: the media
// element, the adaptive streaming engine and the clock driving retry timers.
package ports

import (
	"context"
	"time"
)

// HLSMimeType is probed on the element to detect native HLS playback.
const HLSMimeType = "application/vnd.apple.mpegurl"

// MediaElement is the single video element owned by a mounted player view.
// Methods taking a context map to asynchronous platform calls; their error
// means the request could not be issued or was rejected.
type MediaElement interface {
	CanPlayNative(mimeType string) bool
	// SetSource binds url to the element for the given session.
	SetSource(sessionID, url string) error

	Play(ctx context.Context) error
	Pause() error
	Paused() bool
	SetCurrentTime(seconds float64) error

	Volume() float64
	SetVolume(v float64) error
	Muted() bool
	SetMuted(muted bool) error

	IsFullscreen() bool
	RequestFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error

	PiPEnabled() bool
	PiPActive() bool
	RequestPiP(ctx context.Context) error
	ExitPiP(ctx context.Context) error
}

// Engine is one adaptive streaming engine instance bound to one session.
type Engine interface {
	LoadSource(url string) error
	AttachMedia() error
	StartLoad() error
	RecoverMediaError() error
	// SetLevel selects a rendition index, or -1 for automatic.
	SetLevel(level int) error
	Destroy() error
}

// EngineFactory creates engine instances when the platform supports one.
type EngineFactory interface {
	Supported() bool
	New(sessionID string, cfg EngineConfig) (Engine, error)
}

// Timer is a pending delayed callback.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules on the runtime timer.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// EventObserver is implemented by elements that mirror their state from the
// events the platform reports (a remote element has no local state to read).
type EventObserver interface {
	ObserveMediaEvent(ev MediaEvent)
}
