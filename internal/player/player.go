// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package player composes the playback store, the streaming session adapter
// and the native media bridge for the one mounted player view.
package player

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/player/bridge"
	"github.com/ManuGH/vodplay/internal/player/ports"
	"github.com/ManuGH/vodplay/internal/player/session"
	"github.com/ManuGH/vodplay/internal/player/store"
	"github.com/rs/zerolog"
)

var (
	ErrNotAttached    = errors.New("no player view attached")
	ErrNoVideo        = errors.New("no video selected")
	ErrVideoNotFound  = errors.New("video not found")
	ErrInvalidQuality = errors.New("invalid quality level")
	ErrStaleSession   = errors.New("event belongs to a stale session")
)

// Catalog resolves videos by id.
type Catalog interface {
	Get(id string) (playback.Video, bool)
	First() (playback.Video, bool)
}

// Deps are the collaborators a Player needs besides store and catalog.
type Deps struct {
	Session session.Config
	// Clock drives retry timers; nil uses the runtime clock.
	Clock ports.Clock
	// NewSessionID replaces uuid session ids when set.
	NewSessionID func() string
	Logger       *zerolog.Logger
}

// Player is the explicit context object of one application: it owns the
// store reference and whatever view is currently attached.
type Player struct {
	mu      sync.Mutex
	store   *store.Store
	catalog Catalog
	deps    Deps
	logger  zerolog.Logger

	el      ports.MediaElement
	adapter *session.Adapter
	bridge  *bridge.Bridge

	initialized atomic.Bool
}

func New(st *store.Store, catalog Catalog, deps Deps) *Player {
	logger := log.WithComponent("player")
	if deps.Logger != nil {
		logger = *deps.Logger
	}
	if deps.Clock == nil {
		deps.Clock = ports.RealClock{}
	}
	return &Player{
		store:   st,
		catalog: catalog,
		deps:    deps,
		logger:  logger,
	}
}

// Store exposes the underlying store for read access and subscriptions.
func (p *Player) Store() *store.Store { return p.store }

// View is the state snapshot together with view-local flags.
type View struct {
	playback.State
	Attached    bool    `json:"attached"`
	SessionID   string  `json:"sessionId,omitempty"`
	Mode        string  `json:"mode"`
	Initialized bool    `json:"initialized"`
	ShowSpinner bool    `json:"showSpinner"`
	Progress    float64 `json:"progress"`
}

func (p *Player) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Player) viewLocked() View {
	st := p.store.Snapshot()
	v := View{
		State:    st,
		Mode:     string(session.ModeNone),
		Progress: st.ProgressPercent(),
	}
	if p.adapter != nil {
		v.Attached = true
		v.SessionID = p.adapter.SessionID()
		v.Mode = string(p.adapter.Mode())
		v.Initialized = p.initialized.Load()
		v.ShowSpinner = st.CurrentVideo != nil && (st.IsBuffering || !v.Initialized)
	}
	return v
}

// sink feeds adapter outcomes into the store.
type sink struct{ p *Player }

func (s sink) OnReady() { s.p.initialized.Store(true) }

func (s sink) OnQualities(levels []playback.Quality) { s.p.store.UpdateQualities(levels) }

func (s sink) OnError(err playback.StreamError) { s.p.store.UpdateError(err.Message()) }

// Attach mounts a view. A previously attached view is detached first. The
// current video, if any, gets a session right away.
func (p *Player) Attach(el ports.MediaElement, factory ports.EngineFactory) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detachLocked()

	p.el = el
	p.initialized.Store(false)

	var b *bridge.Bridge
	b = bridge.New(el, p.store,
		bridge.OnPositionChanged(p.store.Seek),
		bridge.OnVolumeChanged(func(volume float64) {
			p.store.SetVolume(volume)
			p.syncAudio(b)
		}),
		bridge.OnMuteChanged(func(muted bool) {
			p.store.SetMuted(muted)
			p.syncAudio(b)
		}),
		bridge.OnInitialized(func() { p.initialized.Store(true) }),
	)
	p.bridge = b

	opts := []session.Option{session.WithClock(p.deps.Clock)}
	if p.deps.NewSessionID != nil {
		opts = append(opts, session.WithIDGenerator(p.deps.NewSessionID))
	}
	p.adapter = session.NewAdapter(el, factory, sink{p}, p.deps.Session, opts...)

	st := p.store.Snapshot()
	b.SyncAudio(st.Volume, st.IsMuted)
	if st.CurrentVideo != nil {
		p.adapter.Load(st.CurrentVideo.URL)
	}

	metrics.SetViewAttached(true)
	p.logger.Info().Str("event", "player.attached").Str(log.FieldSessionID, p.adapter.SessionID()).Msg("player view attached")
	return p.viewLocked()
}

// Detach tears the session down and forgets the view.
func (p *Player) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adapter != nil {
		p.logger.Info().Str("event", "player.detached").Msg("player view detached")
	}
	p.detachLocked()
}

func (p *Player) detachLocked() {
	if p.adapter != nil {
		p.adapter.Destroy()
	}
	p.adapter = nil
	p.bridge = nil
	p.el = nil
	p.initialized.Store(false)
	metrics.SetViewAttached(false)
}

// syncAudio pushes the store's audio state back to the element, so a volume
// above zero also unmutes it.
func (p *Player) syncAudio(b *bridge.Bridge) {
	st := p.store.Snapshot()
	b.SyncAudio(st.Volume, st.IsMuted)
}
