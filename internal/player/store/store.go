// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store is the authoritative playback state container. Commands are
// total: they never fail and never return errors to the caller.
package store

import (
	"sync"
	"time"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/persistence/kv"
	"github.com/rs/zerolog"
)

// Persisted keys.
const (
	KeyVolume    = "video-volume"
	KeyHistory   = "video-history"
	KeyLastVideo = "last-video"
)

const defaultPersistTimeout = 2 * time.Second

// Store serialises every mutation behind one mutex. Each mutation bumps
// State.Revision and then notifies subscribers in mutation order.
type Store struct {
	mu     sync.Mutex
	state  playback.State
	closed bool

	kv             kv.Store
	persistTimeout time.Duration
	logger         zerolog.Logger

	subs    map[uint64]chan playback.State
	nextSub uint64

	lastVideo *playback.Video

	pending   []pendingWrite
	persistMu sync.Mutex
	written   map[string]uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPersistTimeout bounds every durable read and write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// New creates a store and restores volume, history and last video from kvs.
// A nil kvs keeps everything in memory.
func New(kvs kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:             kvs,
		persistTimeout: defaultPersistTimeout,
		logger:         log.WithComponent("store"),
		subs:           make(map[uint64]chan playback.State),
		written:        make(map[string]uint64),
		state: playback.State{
			Volume:         playback.DefaultVolume,
			CurrentQuality: playback.AutoQuality,
			History:        []playback.Video{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() playback.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastVideo returns the video persisted under last-video at startup, if any.
func (s *Store) LastVideo() (playback.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastVideo == nil {
		return playback.Video{}, false
	}
	return *s.lastVideo, true
}

// Subscribe returns a channel receiving a snapshot after every mutation.
// A slow subscriber loses intermediate snapshots but always receives the
// newest one. cancel closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan playback.State, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan playback.State, buffer)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close releases subscribers. The durable backend is owned by the caller.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// mutate applies fn under the lock, bumps the revision and publishes. Values
// queued by fn are persisted after the lock is released.
func (s *Store) mutate(fn func(st *playback.State)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.Revision++
	s.publishLocked()
	writes := s.pending
	s.pending = nil
	for i := range writes {
		writes[i].rev = s.state.Revision
	}
	s.mu.Unlock()

	if len(writes) > 0 {
		s.flush(writes)
	}
}

func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.state.Clone()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the oldest pending snapshot to make room for the newest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
