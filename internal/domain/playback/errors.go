// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

// Engine error categories as reported by the adaptive streaming engine.
const (
	ErrorTypeNetwork     = "networkError"
	ErrorTypeMedia       = "mediaError"
	ErrorTypeMux         = "muxError"
	ErrorTypeKey         = "keySystemError"
	ErrorTypeOther       = "otherError"
	ErrorTypeUnsupported = "UNSUPPORTED"
)

const fallbackErrorMessage = "Error loading video"

// StreamError is a classified playback failure surfaced to the store.
type StreamError struct {
	Type    string `json:"type"`
	Details string `json:"details"`
	Fatal   bool   `json:"fatal"`
}

// Message is the human-readable text shown to the user.
func (e StreamError) Message() string {
	if e.Details != "" {
		return e.Details
	}
	return fallbackErrorMessage
}

func (e StreamError) Error() string {
	return e.Type + ": " + e.Message()
}
