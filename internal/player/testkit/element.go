// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import (
	"context"
	"sync"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// FakeElement is a media element with synchronous, in-memory state.
type FakeElement struct {
	mu sync.Mutex

	NativeHLS     bool
	NoPiP         bool
	Source        string
	SourceSession string

	paused     bool
	volume     float64
	muted      bool
	fullscreen bool
	pip        bool
	position   float64

	PlayErr       error
	FullscreenErr error
	PiPErr        error

	Calls []string
}

func NewFakeElement() *FakeElement {
	return &FakeElement{paused: true, volume: 1}
}

func (e *FakeElement) record(call string) { e.Calls = append(e.Calls, call) }

func (e *FakeElement) CanPlayNative(mimeType string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.NativeHLS && mimeType == ports.HLSMimeType
}

func (e *FakeElement) SetSource(sessionID, url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("source")
	e.SourceSession, e.Source = sessionID, url
	return nil
}

func (e *FakeElement) Play(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("play")
	if e.PlayErr != nil {
		return e.PlayErr
	}
	e.paused = false
	return nil
}

func (e *FakeElement) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("pause")
	e.paused = true
	return nil
}

func (e *FakeElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *FakeElement) SetCurrentTime(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("seek")
	e.position = seconds
	return nil
}

// Position returns the last assigned playback position.
func (e *FakeElement) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *FakeElement) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *FakeElement) SetVolume(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("volume")
	e.volume = v
	return nil
}

func (e *FakeElement) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *FakeElement) SetMuted(muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("muted")
	e.muted = muted
	return nil
}

func (e *FakeElement) IsFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

func (e *FakeElement) RequestFullscreen(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("fullscreen.request")
	if e.FullscreenErr != nil {
		return e.FullscreenErr
	}
	e.fullscreen = true
	return nil
}

func (e *FakeElement) ExitFullscreen(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("fullscreen.exit")
	if e.FullscreenErr != nil {
		return e.FullscreenErr
	}
	e.fullscreen = false
	return nil
}

func (e *FakeElement) PiPEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.NoPiP
}

func (e *FakeElement) PiPActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pip
}

func (e *FakeElement) RequestPiP(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("pip.request")
	if e.PiPErr != nil {
		return e.PiPErr
	}
	e.pip = true
	return nil
}

func (e *FakeElement) ExitPiP(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("pip.exit")
	if e.PiPErr != nil {
		return e.PiPErr
	}
	e.pip = false
	return nil
}

// CallLog returns a copy of the recorded command names.
func (e *FakeElement) CallLog() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.Calls...)
}

var (
	_ ports.MediaElement  = (*FakeElement)(nil)
	_ ports.EngineFactory = (*FakeEngineFactory)(nil)
	_ ports.Clock         = (*FakeClock)(nil)
)
