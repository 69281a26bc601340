// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"sync"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// Element is a media element in the browser. Its readable state mirrors the
// last reported events; synchronous setters update the mirror eagerly.
type Element struct {
	link *Link
	caps Capabilities

	mu         sync.Mutex
	paused     bool
	volume     float64
	muted      bool
	fullscreen bool
	pip        bool
	position   float64
}

func newElement(l *Link, caps Capabilities) *Element {
	return &Element{link: l, caps: caps, paused: true, volume: 1}
}

func (e *Element) command(ctx context.Context, name string, args map[string]any) error {
	return e.link.send(ctx, Command{Target: TargetElement, Name: name, Args: args})
}

func (e *Element) CanPlayNative(mimeType string) bool {
	return e.caps.NativeHLS && mimeType == ports.HLSMimeType
}

func (e *Element) SetSource(sessionID, url string) error {
	e.mu.Lock()
	e.paused = true
	e.position = 0
	e.mu.Unlock()
	return e.link.send(context.Background(), Command{
		Target:    TargetElement,
		SessionID: sessionID,
		Name:      "setSource",
		Args:      map[string]any{"url": url},
	})
}

func (e *Element) Play(ctx context.Context) error {
	return e.command(ctx, "play", nil)
}

func (e *Element) Pause() error {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
	return e.command(context.Background(), "pause", nil)
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Position is the last known playback position in seconds.
func (e *Element) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *Element) SetCurrentTime(seconds float64) error {
	e.mu.Lock()
	e.position = seconds
	e.mu.Unlock()
	return e.command(context.Background(), "seek", map[string]any{"time": seconds})
}

func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Element) SetVolume(v float64) error {
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
	return e.command(context.Background(), "setVolume", map[string]any{"volume": v})
}

func (e *Element) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *Element) SetMuted(muted bool) error {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()
	return e.command(context.Background(), "setMuted", map[string]any{"muted": muted})
}

func (e *Element) IsFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

func (e *Element) RequestFullscreen(ctx context.Context) error {
	return e.command(ctx, "requestFullscreen", nil)
}

func (e *Element) ExitFullscreen(ctx context.Context) error {
	return e.command(ctx, "exitFullscreen", nil)
}

func (e *Element) PiPEnabled() bool { return e.caps.PiP }

func (e *Element) PiPActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pip
}

func (e *Element) RequestPiP(ctx context.Context) error {
	return e.command(ctx, "requestPictureInPicture", nil)
}

func (e *Element) ExitPiP(ctx context.Context) error {
	return e.command(ctx, "exitPictureInPicture", nil)
}

// ObserveMediaEvent updates the mirror from an event the view reported.
func (e *Element) ObserveMediaEvent(ev ports.MediaEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch ev.Kind {
	case ports.MediaPlay, ports.MediaPlaying:
		e.paused = false
	case ports.MediaPause:
		e.paused = true
	case ports.MediaTimeUpdate:
		e.position = ev.CurrentTime
	case ports.MediaVolumeChange:
		e.volume = ev.Volume
		e.muted = ev.Muted
	case ports.MediaFullscreen:
		e.fullscreen = ev.Active
	case ports.MediaEnterPiP:
		e.pip = true
	case ports.MediaLeavePiP:
		e.pip = false
	}
}

var (
	_ ports.MediaElement  = (*Element)(nil)
	_ ports.EventObserver = (*Element)(nil)
)
