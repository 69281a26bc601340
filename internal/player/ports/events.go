// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import "github.com/ManuGH/vodplay/internal/domain/playback"

// MediaEventKind names a native media element event.
type MediaEventKind string

const (
	MediaTimeUpdate     MediaEventKind = "timeupdate"
	MediaDurationChange MediaEventKind = "durationchange"
	MediaLoadedMetadata MediaEventKind = "loadedmetadata"
	MediaLoadedData     MediaEventKind = "loadeddata"
	MediaCanPlay        MediaEventKind = "canplay"
	MediaPlay           MediaEventKind = "play"
	MediaPause          MediaEventKind = "pause"
	MediaWaiting        MediaEventKind = "waiting"
	MediaPlaying        MediaEventKind = "playing"
	MediaEnterPiP       MediaEventKind = "enterpictureinpicture"
	MediaLeavePiP       MediaEventKind = "leavepictureinpicture"
	MediaFullscreen     MediaEventKind = "fullscreenchange"
	MediaVolumeChange   MediaEventKind = "volumechange"
	// MediaCommandFailed reports an asynchronous command the platform rejected.
	MediaCommandFailed MediaEventKind = "commandfailed"
)

// Known reports whether k is part of the media event vocabulary.
func (k MediaEventKind) Known() bool {
	switch k {
	case MediaTimeUpdate, MediaDurationChange, MediaLoadedMetadata, MediaLoadedData,
		MediaCanPlay, MediaPlay, MediaPause, MediaWaiting, MediaPlaying,
		MediaEnterPiP, MediaLeavePiP, MediaFullscreen, MediaVolumeChange, MediaCommandFailed:
		return true
	}
	return false
}

// MediaEvent is one native event together with the element state it reports.
type MediaEvent struct {
	SessionID   string         `json:"sessionId"`
	Kind        MediaEventKind `json:"type"`
	CurrentTime float64        `json:"currentTime,omitempty"`
	// Duration may be NaN or +Inf in-process; clients omit non-finite values.
	Duration float64 `json:"duration,omitempty"`
	Paused   bool    `json:"paused,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
	Muted    bool    `json:"muted,omitempty"`
	// Active carries the fullscreen state for fullscreenchange.
	Active  bool   `json:"active,omitempty"`
	Command string `json:"command,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// EngineEventKind names a streaming engine event.
type EngineEventKind string

const (
	EngineManifestParsed EngineEventKind = "manifestparsed"
	EngineError          EngineEventKind = "error"
)

// EngineEvent is one event emitted by the engine instance of a session.
type EngineEvent struct {
	SessionID string               `json:"sessionId"`
	Kind      EngineEventKind      `json:"type"`
	Levels    []playback.Quality   `json:"levels,omitempty"`
	Error     playback.StreamError `json:"error,omitempty"`
}
