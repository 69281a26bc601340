// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

// State is a point-in-time snapshot of the playback session.
type State struct {
	Revision       uint64    `json:"revision"`
	CurrentVideo   *Video    `json:"currentVideo"`
	IsPlaying      bool      `json:"isPlaying"`
	CurrentTime    float64   `json:"currentTime"`
	Duration       float64   `json:"duration"`
	Volume         float64   `json:"volume"`
	IsMuted        bool      `json:"isMuted"`
	IsFullscreen   bool      `json:"isFullscreen"`
	Qualities      []Quality `json:"qualities"`
	CurrentQuality int       `json:"currentQuality"`
	IsBuffering    bool      `json:"isBuffering"`
	Error          string    `json:"error,omitempty"`
	History        []Video   `json:"history"`
	IsPiPActive    bool      `json:"isPiPActive"`
}

// HasError reports whether the session is in the failed state.
func (s State) HasError() bool {
	return s.Error != ""
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s State) ProgressPercent() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Clone returns a deep copy so snapshots never alias store internals.
func (s State) Clone() State {
	out := s
	if s.CurrentVideo != nil {
		v := *s.CurrentVideo
		out.CurrentVideo = &v
	}
	if s.Qualities != nil {
		out.Qualities = append([]Quality(nil), s.Qualities...)
	}
	if s.History != nil {
		out.History = append([]Video(nil), s.History...)
	}
	return out
}
