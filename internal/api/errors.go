// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/vodplay/internal/api/problem"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/player"
	"github.com/ManuGH/vodplay/internal/widgets"
)

// APIError is a problem the handlers can return by value.
type APIError struct {
	Status int
	Type   string
	Title  string
	Code   string
}

var (
	ErrNotAttached   = APIError{http.StatusConflict, "player/not_attached", "Conflict", "NOT_ATTACHED"}
	ErrNoVideo       = APIError{http.StatusConflict, "player/no_video", "Conflict", "NO_VIDEO"}
	ErrVideoNotFound = APIError{http.StatusNotFound, "catalog/not_found", "Not Found", "VIDEO_NOT_FOUND"}
	ErrInvalidLevel  = APIError{http.StatusUnprocessableEntity, "player/invalid_quality", "Unprocessable Entity", "INVALID_QUALITY"}
	ErrInvalidInput  = APIError{http.StatusBadRequest, "system/invalid_input", "Bad Request", "INVALID_INPUT"}
	ErrUnknownWidget = APIError{http.StatusNotFound, "widgets/not_found", "Not Found", "WIDGET_NOT_FOUND"}
	ErrThrottled     = APIError{http.StatusTooManyRequests, "widgets/throttled", "Too Many Requests", "THROTTLED"}
	ErrInternal      = APIError{http.StatusInternalServerError, "system/internal", "Internal Server Error", "INTERNAL"}
)

func writeProblem(w http.ResponseWriter, r *http.Request, e APIError, detail string) {
	problem.Write(w, r, e.Status, e.Type, e.Title, e.Code, detail, nil)
}

func writeProblemExtra(w http.ResponseWriter, r *http.Request, e APIError, detail string, extra map[string]any) {
	problem.Write(w, r, e.Status, e.Type, e.Title, e.Code, detail, extra)
}

// writeError maps domain errors onto problems. Unknown errors are logged and
// answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, player.ErrNotAttached):
		writeProblem(w, r, ErrNotAttached, err.Error())
	case errors.Is(err, player.ErrNoVideo):
		writeProblem(w, r, ErrNoVideo, err.Error())
	case errors.Is(err, player.ErrVideoNotFound):
		writeProblem(w, r, ErrVideoNotFound, err.Error())
	case errors.Is(err, player.ErrInvalidQuality):
		writeProblem(w, r, ErrInvalidLevel, err.Error())
	case errors.Is(err, widgets.ErrUnknownWidget):
		writeProblem(w, r, ErrUnknownWidget, err.Error())
	case errors.Is(err, widgets.ErrThrottled):
		w.Header().Set("Retry-After", "1")
		writeProblem(w, r, ErrThrottled, err.Error())
	default:
		xglog.WithComponentFromContext(r.Context(), "api").Error().
			Err(err).
			Str("event", "api.unhandled_error").
			Str("path", r.URL.Path).
			Msg("unhandled handler error")
		writeProblem(w, r, ErrInternal, "")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		xglog.WithComponentFromContext(r.Context(), "api").Warn().
			Err(err).
			Str("event", "api.encode_failed").
			Msg("failed to encode response")
	}
}

const maxBodyBytes = 64 << 10

// decodeBody decodes a JSON body strictly. It writes the 400 itself and
// reports false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, r, ErrInvalidInput, "invalid request body: "+err.Error())
		return false
	}
	return true
}
