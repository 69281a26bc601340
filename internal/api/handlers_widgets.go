// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/ManuGH/vodplay/internal/widgets"
)

func widgetName(r *http.Request) (string, error) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	return name, err
}

// widgetScope keys the refresh limiter by widget.
func widgetScope(r *http.Request) string {
	return chi.URLParam(r, "name")
}

func (s *Server) rejectRefresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	writeProblem(w, r, ErrThrottled, "too many refresh requests")
}

// GET /api/v1/widgets/{name}
func (s *Server) handleGetWidget(w http.ResponseWriter, r *http.Request) {
	name, err := widgetName(r)
	if err != nil {
		writeProblem(w, r, ErrInvalidInput, err.Error())
		return
	}
	snap, err := s.deps.Widgets.Snapshot(name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

// POST /api/v1/widgets/{name}/refresh
//
// A throttled refresh still carries the current snapshot in the body of the
// 429 problem so the panel can keep rendering.
func (s *Server) handleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	name, err := widgetName(r)
	if err != nil {
		writeProblem(w, r, ErrInvalidInput, err.Error())
		return
	}
	snap, err := s.deps.Widgets.Refresh(r.Context(), name)
	if errors.Is(err, widgets.ErrThrottled) {
		w.Header().Set("Retry-After", "1")
		writeProblemExtra(w, r, ErrThrottled, err.Error(), map[string]any{"snapshot": snap})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}
