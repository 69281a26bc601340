// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Player attributes
	VideoIDKey       = "video.id"
	PlayerSessionKey = "player.session_id"
	PlayerModeKey    = "player.mode"

	// Catalog attributes
	CatalogQueryKey   = "catalog.query"
	CatalogResultsKey = "catalog.results"

	// Widget attributes
	WidgetNameKey    = "widget.name"
	WidgetOutcomeKey = "widget.outcome"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// PlayerAttributes describes a video selection. Empty values are omitted.
func PlayerAttributes(videoID, sessionID, mode string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if videoID != "" {
		attrs = append(attrs, attribute.String(VideoIDKey, videoID))
	}
	if sessionID != "" {
		attrs = append(attrs, attribute.String(PlayerSessionKey, sessionID))
	}
	if mode != "" {
		attrs = append(attrs, attribute.String(PlayerModeKey, mode))
	}
	return attrs
}

// CatalogAttributes describes a catalog search.
func CatalogAttributes(query string, results int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(CatalogQueryKey, query),
		attribute.Int(CatalogResultsKey, results),
	}
}

// WidgetAttributes describes a widget fetch.
func WidgetAttributes(name, outcome string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(WidgetNameKey, name)}
	if outcome != "" {
		attrs = append(attrs, attribute.String(WidgetOutcomeKey, outcome))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
