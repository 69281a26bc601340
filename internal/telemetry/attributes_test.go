// SPDX-License-Identifier: MIT
package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestPlayerAttributes(t *testing.T) {
	tests := []struct {
		name                 string
		video, session, mode string
		want                 []attribute.KeyValue
	}{
		{
			name:    "all fields",
			video:   "bbb",
			session: "s-1",
			mode:    "engine",
			want: []attribute.KeyValue{
				attribute.String(VideoIDKey, "bbb"),
				attribute.String(PlayerSessionKey, "s-1"),
				attribute.String(PlayerModeKey, "engine"),
			},
		},
		{
			name:  "only video",
			video: "bbb",
			want:  []attribute.KeyValue{attribute.String(VideoIDKey, "bbb")},
		},
		{
			name: "empty",
			want: []attribute.KeyValue{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlayerAttributes(tt.video, tt.session, tt.mode))
		})
	}
}

func TestCatalogAttributes(t *testing.T) {
	assert.Equal(t, []attribute.KeyValue{
		attribute.String(CatalogQueryKey, "tears"),
		attribute.Int(CatalogResultsKey, 1),
	}, CatalogAttributes("tears", 1))
}

func TestWidgetAttributes(t *testing.T) {
	assert.Len(t, WidgetAttributes("weather", ""), 1)
	assert.Equal(t, attribute.String(WidgetOutcomeKey, "success"), WidgetAttributes("weather", "success")[1])
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes("network")
	assert.Equal(t, attribute.Bool(ErrorKey, true), attrs[0])
	assert.Equal(t, attribute.String(ErrorTypeKey, "network"), attrs[1])
}
