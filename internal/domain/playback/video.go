// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package playback holds the domain types shared by the player store, the
// streaming session adapter and the native media bridge.
package playback

import (
	"strconv"
	"strings"
)

// Video is one catalog entry. It is immutable once loaded.
type Video struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	URL         string `json:"url" yaml:"url"`
	Duration    string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// DurationSeconds parses the human-readable duration ("9:56", "1:02:03").
// It returns 0 when the duration is absent or malformed.
func (v Video) DurationSeconds() int {
	if v.Duration == "" {
		return 0
	}
	parts := strings.Split(strings.TrimSpace(v.Duration), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		// minutes and seconds fields must stay below 60
		if i > 0 && n >= 60 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// Quality is one rendition reported by the streaming engine.
type Quality struct {
	Height  int `json:"height"`
	Bitrate int `json:"bitrate"`
	Level   int `json:"level"`
}

const (
	// AutoQuality lets the engine pick the rendition by measured bandwidth.
	AutoQuality = -1
	// MaxHistory bounds the recently-selected list.
	MaxHistory = 3
	// DefaultVolume applies when nothing has been persisted yet.
	DefaultVolume = 0.7
)
