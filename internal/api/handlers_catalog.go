// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/telemetry"
)

// CatalogResponse is the catalog listing.
type CatalogResponse struct {
	Items []playback.Video `json:"items"`
	Total int              `json:"total"`
	Query string           `json:"query,omitempty"`
}

// GET /api/v1/catalog?q=
func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeProblem(w, r, ErrInvalidInput, err.Error())
		return
	}

	items := s.deps.Catalog.All()
	if q != "" {
		items = s.deps.Catalog.Search(q)
	}
	if items == nil {
		items = []playback.Video{}
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.CatalogAttributes(q, len(items))...)

	writeJSON(w, r, http.StatusOK, CatalogResponse{Items: items, Total: len(items), Query: q})
}

// GET /api/v1/catalog/{id}
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		writeProblem(w, r, ErrInvalidInput, err.Error())
		return
	}

	v, ok := s.deps.Catalog.Get(id)
	if !ok {
		writeProblem(w, r, ErrVideoNotFound, "no video with id "+id)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// GET /api/v1/catalog.m3u
func (s *Server) handleCatalogM3U(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Disposition", `inline; filename="vodplay.m3u"`)
	if err := s.deps.Catalog.WriteM3U(w); err != nil {
		xglog.WithComponentFromContext(r.Context(), "api").Warn().
			Err(err).
			Str("event", "catalog.m3u.write_failed").
			Msg("failed to write playlist")
	}
}
