// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vodplay/internal/log"
)

func TestWrite(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/player/play", nil)
	req = req.WithContext(log.ContextWithRequestID(req.Context(), "req-1"))
	rec := httptest.NewRecorder()

	Write(rec, req, http.StatusConflict, "player/not_attached", "Conflict", "NOT_ATTACHED",
		"no player view attached", map[string]any{"status": 200, "retryable": true})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["retryable"])

	var got Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want := Problem{
		Type:      "player/not_attached",
		Title:     "Conflict",
		Status:    http.StatusConflict,
		Code:      "NOT_ATTACHED",
		Detail:    "no player view attached",
		Instance:  "/api/v1/player/play",
		RequestID: "req-1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("problem mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_FallsBackToResponseHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	rec.Header().Set(HeaderRequestID, "hdr-7")

	Write(rec, req, http.StatusNotFound, "catalog/not_found", "Not Found", "NOT_FOUND", "", nil)

	var got Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "hdr-7", got.RequestID)
	assert.Empty(t, got.Detail)
}
