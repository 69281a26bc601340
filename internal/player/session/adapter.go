// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package session binds one stream URL at a time to the media element,
// either natively or through one adaptive streaming engine instance.
package session

import (
	"sync"
	"time"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/player/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mode is how the live session plays.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeNative Mode = "native"
	ModeEngine Mode = "engine"
)

// UnsupportedMessage is surfaced when neither playback path is available.
const UnsupportedMessage = "HLS is not supported in this browser"

// Sink receives the outcome of a session. Calls are made without adapter
// locks held, in the order the adapter produced them.
type Sink interface {
	OnReady()
	OnQualities(levels []playback.Quality)
	OnError(err playback.StreamError)
}

// Config tunes the adapter.
type Config struct {
	Engine               ports.EngineConfig `yaml:"engine"`
	NetworkRetryDelay    time.Duration      `yaml:"networkRetryDelay"`
	MaxNetworkRecoveries int                `yaml:"maxNetworkRecoveries"`
}

// DefaultConfig returns the stock retry policy.
func DefaultConfig() Config {
	return Config{
		Engine:               ports.DefaultEngineConfig(),
		NetworkRetryDelay:    time.Second,
		MaxNetworkRecoveries: 3,
	}
}

// Adapter owns at most one session. It never panics and never returns
// errors; failures reach the Sink.
type Adapter struct {
	mu sync.Mutex

	el      ports.MediaElement
	factory ports.EngineFactory
	sink    Sink
	cfg     Config
	clock   ports.Clock
	newID   func() string
	logger  zerolog.Logger

	// gen changes on every teardown; timers capture it to detect staleness.
	gen       uint64
	sessionID string
	url       string
	mode      Mode
	engine    ports.Engine
	timers    []ports.Timer
	ready     bool

	levelsReported    bool
	networkRecoveries int
	mediaRecovered    bool
}

// Option configures an Adapter.
type Option func(*Adapter)

func WithClock(c ports.Clock) Option {
	return func(a *Adapter) { a.clock = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithIDGenerator replaces uuid session ids.
func WithIDGenerator(f func() string) Option {
	return func(a *Adapter) { a.newID = f }
}

// NewAdapter creates an idle adapter for one element. factory may be nil
// when only native playback is available.
func NewAdapter(el ports.MediaElement, factory ports.EngineFactory, sink Sink, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		el:      el,
		factory: factory,
		sink:    sink,
		cfg:     cfg,
		clock:   ports.RealClock{},
		newID:   uuid.NewString,
		logger:  log.WithComponent("session"),
		mode:    ModeNone,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SessionID returns the live session id, or "" when idle.
func (a *Adapter) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

func (a *Adapter) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Ready reports whether the live session reported ready.
func (a *Adapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// URL returns the URL of the live session.
func (a *Adapter) URL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.url
}
