// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package player

import (
	"context"
	"math"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/player/bridge"
	"github.com/ManuGH/vodplay/internal/player/ports"
	"github.com/ManuGH/vodplay/internal/telemetry"
)

const tracerName = "github.com/ManuGH/vodplay/internal/player"

// Select makes the catalog video id current and, with a view attached,
// replaces the streaming session.
func (p *Player) Select(ctx context.Context, id string) (playback.Video, error) {
	_, span := telemetry.Tracer(tracerName).Start(ctx, "player.select")
	defer span.End()
	span.SetAttributes(telemetry.PlayerAttributes(id, "", "")...)

	v, ok := p.catalog.Get(id)
	if !ok {
		return playback.Video{}, ErrVideoNotFound
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectLocked(v)
	return v, nil
}

func (p *Player) selectLocked(v playback.Video) {
	p.store.SelectVideo(v)
	p.initialized.Store(false)
	if p.adapter != nil {
		p.adapter.Load(v.URL)
	}
	p.logger.Info().Str("event", "player.selected").Str(log.FieldVideoID, v.ID).Msg("video selected")
}

// Bootstrap restores the last selected video, falling back to the first
// catalog entry. It does nothing when a video is already current.
func (p *Player) Bootstrap(ctx context.Context) {
	_, span := telemetry.Tracer(tracerName).Start(ctx, "player.bootstrap")
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.store.Snapshot().CurrentVideo != nil {
		return
	}
	if last, ok := p.store.LastVideo(); ok {
		// Prefer the catalog's copy so edited entries win over stale records.
		if fresh, found := p.catalog.Get(last.ID); found {
			last = fresh
		}
		p.selectLocked(last)
		return
	}
	if first, ok := p.catalog.First(); ok {
		p.selectLocked(first)
	}
}

// transport returns the bridge when a view and a video are present.
func (p *Player) transport() (*bridge.Bridge, error) {
	if p.bridge == nil {
		return nil, ErrNotAttached
	}
	if p.store.Snapshot().CurrentVideo == nil {
		return nil, ErrNoVideo
	}
	return p.bridge, nil
}

// Play asks the element to play. IsPlaying follows the play event echo.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, err := p.transport()
	if err != nil {
		return err
	}
	b.Play(ctx)
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, err := p.transport()
	if err != nil {
		return err
	}
	b.Pause()
	return nil
}

func (p *Player) TogglePlayback(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, err := p.transport()
	if err != nil {
		return err
	}
	b.TogglePlayback(ctx)
	return nil
}

func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, err := p.transport()
	if err != nil {
		return err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	b.SeekTo(t)
	return nil
}

// SetVolume goes through the element when a view is attached, otherwise it
// only updates the stored preference.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bridge != nil {
		p.bridge.SetVolume(v)
		return
	}
	switch {
	case math.IsNaN(v) || v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	p.store.SetVolume(v)
}

func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bridge != nil {
		p.bridge.ToggleMute()
		return
	}
	p.store.ToggleMute()
}

// ToggleFullscreen and TogglePiP only issue the platform request; the store
// flags follow the fullscreenchange and PiP events.
func (p *Player) ToggleFullscreen(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bridge == nil {
		return ErrNotAttached
	}
	p.bridge.ToggleFullscreen(ctx)
	return nil
}

func (p *Player) TogglePiP(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bridge == nil {
		return ErrNotAttached
	}
	p.bridge.TogglePictureInPicture(ctx)
	return nil
}

// SetQuality selects a rendition index or AutoQuality.
func (p *Player) SetQuality(level int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level != playback.AutoQuality {
		qualities := p.store.Snapshot().Qualities
		if level < 0 || level >= len(qualities) {
			return ErrInvalidQuality
		}
	}
	p.store.SetQuality(level)
	if p.adapter != nil {
		p.adapter.SetQuality(level)
	}
	return nil
}

// ClearError dismisses the error. With a view attached the current video
// gets a fresh session, which is what "try again" means to the user.
func (p *Player) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.store.Snapshot()
	p.store.ClearError()
	if st.HasError() && p.adapter != nil && st.CurrentVideo != nil {
		p.initialized.Store(false)
		p.adapter.Load(st.CurrentVideo.URL)
	}
}

// HandleMediaEvent applies a native event reported by the attached view.
func (p *Player) HandleMediaEvent(ev ports.MediaEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adapter == nil {
		return ErrNotAttached
	}
	if ev.SessionID == "" || ev.SessionID != p.adapter.SessionID() {
		metrics.IncStaleEvent(metrics.SourceMedia)
		return ErrStaleSession
	}
	if obs, ok := p.el.(ports.EventObserver); ok {
		obs.ObserveMediaEvent(ev)
	}
	p.bridge.Dispatch(ev)
	return nil
}

// HandleEngineEvent forwards an engine event to the session adapter, which
// drops it when stale.
func (p *Player) HandleEngineEvent(ev ports.EngineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adapter == nil {
		return ErrNotAttached
	}
	p.adapter.Dispatch(ev)
	return nil
}

// Close detaches any view.
func (p *Player) Close() {
	p.Detach()
}
