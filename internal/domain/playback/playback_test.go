// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoDurationSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"9:56", 596},
		{"12:14", 734},
		{"1:02:03", 3723},
		{"", 0},
		{"abc", 0},
		{"5", 0},
		{"1:75", 0},
		{"-1:10", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Video{Duration: tt.in}.DurationSeconds())
		})
	}
}

func TestStateProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, State{CurrentTime: 10}.ProgressPercent())
	assert.Equal(t, 50.0, State{CurrentTime: 30, Duration: 60}.ProgressPercent())
	assert.Equal(t, 100.0, State{CurrentTime: 90, Duration: 60}.ProgressPercent())
}

func TestStateCloneDoesNotAlias(t *testing.T) {
	v := Video{ID: "1"}
	s := State{CurrentVideo: &v, History: []Video{v}, Qualities: []Quality{{Height: 720}}}
	c := s.Clone()
	c.CurrentVideo.ID = "x"
	c.History[0].ID = "y"
	c.Qualities[0].Height = 1
	assert.Equal(t, "1", s.CurrentVideo.ID)
	assert.Equal(t, "1", s.History[0].ID)
	assert.Equal(t, 720, s.Qualities[0].Height)
}

func TestStreamErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", StreamError{Details: "boom"}.Message())
	assert.Equal(t, "Error loading video", StreamError{}.Message())
	assert.Equal(t, "UNSUPPORTED: nope", StreamError{Type: ErrorTypeUnsupported, Details: "nope"}.Error())
}
