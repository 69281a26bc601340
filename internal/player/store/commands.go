// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"math"

	"github.com/ManuGH/vodplay/internal/domain/playback"
)

// SelectVideo makes v current, resets transport state and records history.
func (s *Store) SelectVideo(v playback.Video) {
	s.mutate(func(st *playback.State) {
		cur := v
		st.CurrentVideo = &cur
		st.IsPlaying = false
		st.CurrentTime = 0
		st.Duration = 0
		st.Error = ""
		st.Qualities = nil
		st.CurrentQuality = playback.AutoQuality
		st.IsBuffering = false
		st.History = pushHistory(st.History, v)

		s.persistLocked(KeyLastVideo, v)
		s.persistLocked(KeyHistory, st.History)
	})
}

func pushHistory(history []playback.Video, v playback.Video) []playback.Video {
	out := make([]playback.Video, 0, playback.MaxHistory)
	out = append(out, v)
	for _, h := range history {
		if len(out) == playback.MaxHistory {
			break
		}
		if h.ID != v.ID {
			out = append(out, h)
		}
	}
	return out
}

// TogglePlay flips IsPlaying. Native event echoes use SetPlaying instead.
func (s *Store) TogglePlay() {
	s.mutate(func(st *playback.State) { st.IsPlaying = !st.IsPlaying })
}

func (s *Store) SetPlaying(playing bool) {
	s.mutate(func(st *playback.State) { st.IsPlaying = playing })
}

// Seek records the playback position; it does not move the native transport.
func (s *Store) Seek(t float64) {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	s.mutate(func(st *playback.State) { st.CurrentTime = t })
}

// SetVolume stores v as given and clears mute when v > 0. Clamping is the
// bridge's job.
func (s *Store) SetVolume(v float64) {
	s.mutate(func(st *playback.State) {
		st.Volume = v
		if v > 0 {
			st.IsMuted = false
		}
		s.persistLocked(KeyVolume, v)
	})
}

func (s *Store) ToggleMute() {
	s.mutate(func(st *playback.State) { st.IsMuted = !st.IsMuted })
}

func (s *Store) SetMuted(muted bool) {
	s.mutate(func(st *playback.State) { st.IsMuted = muted })
}

func (s *Store) ToggleFullscreen() {
	s.mutate(func(st *playback.State) { st.IsFullscreen = !st.IsFullscreen })
}

func (s *Store) SetFullscreen(active bool) {
	s.mutate(func(st *playback.State) { st.IsFullscreen = active })
}

func (s *Store) TogglePiP() {
	s.mutate(func(st *playback.State) { st.IsPiPActive = !st.IsPiPActive })
}

func (s *Store) SetPiPActive(active bool) {
	s.mutate(func(st *playback.State) { st.IsPiPActive = active })
}

// SetQuality selects a rendition index; AutoQuality hands control back to ABR.
func (s *Store) SetQuality(level int) {
	s.mutate(func(st *playback.State) { st.CurrentQuality = level })
}

func (s *Store) ClearError() {
	s.mutate(func(st *playback.State) { st.Error = "" })
}

// UpdateDuration, UpdateQualities, UpdateBuffering and UpdateError are fed by
// the session adapter and the media bridge only.

func (s *Store) UpdateDuration(d float64) {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		d = 0
	}
	s.mutate(func(st *playback.State) { st.Duration = d })
}

func (s *Store) UpdateQualities(q []playback.Quality) {
	cp := append([]playback.Quality(nil), q...)
	s.mutate(func(st *playback.State) { st.Qualities = cp })
}

func (s *Store) UpdateBuffering(buffering bool) {
	s.mutate(func(st *playback.State) { st.IsBuffering = buffering })
}

func (s *Store) UpdateError(msg string) {
	s.mutate(func(st *playback.State) { st.Error = msg })
}
