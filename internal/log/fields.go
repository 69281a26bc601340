// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"
	FieldVideoID   = "video_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldWidget    = "widget"
	FieldBackend   = "backend"

	// Media / stream fields
	FieldStreamURL   = "stream_url"
	FieldMode        = "mode"
	FieldErrorType   = "error_type"
	FieldErrorDetail = "error_details"
	FieldLevel       = "quality_level"

	// Path / URL fields
	FieldPath = "path"
)
