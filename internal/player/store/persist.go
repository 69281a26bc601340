// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"encoding/json"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"github.com/ManuGH/vodplay/internal/metrics"
)

// pendingWrite is a marshalled value captured under the state lock and
// written to the backend after it is released.
type pendingWrite struct {
	key string
	raw []byte
	rev uint64
}

// persistLocked queues value under key for the current mutation.
func (s *Store) persistLocked(key string, value any) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.persistFailed(key, err)
		return
	}
	s.pending = append(s.pending, pendingWrite{key: key, raw: raw})
}

// flush writes queued values outside the state lock. persistMu serialises
// writers; a write older than the last one stored for its key is skipped so
// the backend always converges on the newest state. Failures are logged and
// counted; the in-memory state stays authoritative.
func (s *Store) flush(writes []pendingWrite) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	for _, w := range writes {
		if w.rev <= s.written[w.key] {
			continue
		}
		s.written[w.key] = w.rev
		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		err := s.kv.Put(ctx, w.key, w.raw)
		cancel()
		if err != nil {
			s.persistFailed(w.key, err)
		}
	}
}

func (s *Store) persistFailed(key string, err error) {
	metrics.IncStorePersistFailure(key)
	s.logger.Warn().
		Err(err).
		Str("event", "store.persist_failed").
		Str("key", key).
		Msg("failed to persist player state")
}

// restore loads persisted values. Missing or undecodable entries keep defaults.
func (s *Store) restore() {
	if s.kv == nil {
		return
	}

	var volume float64
	if s.load(KeyVolume, &volume) && volume >= 0 && volume <= 1 {
		s.state.Volume = volume
	}

	var history []playback.Video
	if s.load(KeyHistory, &history) {
		s.state.History = sanitizeHistory(history)
	}

	var last playback.Video
	if s.load(KeyLastVideo, &last) && last.ID != "" {
		s.lastVideo = &last
	}
}

func (s *Store) load(key string, dst any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("event", "store.restore_failed").Str("key", key).Msg("failed to read persisted state")
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn().Err(err).Str("event", "store.restore_invalid").Str("key", key).Msg("ignoring malformed persisted state")
		return false
	}
	return true
}

// sanitizeHistory enforces the history invariants on data read from disk.
func sanitizeHistory(in []playback.Video) []playback.Video {
	out := make([]playback.Video, 0, playback.MaxHistory)
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if len(out) == playback.MaxHistory {
			break
		}
		if v.ID == "" {
			continue
		}
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}
