// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vodplay/internal/api/problem"
	"github.com/ManuGH/vodplay/internal/bus"
	"github.com/ManuGH/vodplay/internal/catalog"
	"github.com/ManuGH/vodplay/internal/health"
	"github.com/ManuGH/vodplay/internal/persistence/kv"
	"github.com/ManuGH/vodplay/internal/player"
	"github.com/ManuGH/vodplay/internal/player/session"
	"github.com/ManuGH/vodplay/internal/player/store"
	"github.com/ManuGH/vodplay/internal/remote"
	"github.com/ManuGH/vodplay/internal/widgets"
)

type fakeWidgets struct {
	refreshErr error
	refreshed  []string
}

func (f *fakeWidgets) Snapshot(name string) (any, error) {
	if name != widgets.WeatherName && name != widgets.CryptoName {
		return nil, fmt.Errorf("%w: %q", widgets.ErrUnknownWidget, name)
	}
	return widgets.Snapshot[string]{Status: widgets.StatusLoading}, nil
}

func (f *fakeWidgets) Refresh(_ context.Context, name string) (any, error) {
	snap, err := f.Snapshot(name)
	if err != nil {
		return nil, err
	}
	f.refreshed = append(f.refreshed, name)
	return snap, f.refreshErr
}

type testServer struct {
	server  *Server
	handler http.Handler
	player  *player.Player
	bus     *bus.MemoryBus
	widgets *fakeWidgets
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cat, err := catalog.New(catalog.Builtin())
	require.NoError(t, err)

	st := store.New(kv.NewMemoryStore())
	n := 0
	p := player.New(st, cat, player.Deps{
		Session:      session.DefaultConfig(),
		NewSessionID: func() string { n++; return fmt.Sprintf("view-%d", n) },
	})
	t.Cleanup(p.Close)

	b := bus.NewMemoryBus()
	fw := &fakeWidgets{}
	hm := health.NewManager("test")

	srv := NewServer(Config{}, Deps{
		Player:  p,
		Catalog: cat,
		Widgets: fw,
		Health:  hm,
		Bus:     b,
		Link:    remote.NewLink(b),
	})
	return &testServer{server: srv, handler: srv.Handler(), player: p, bus: b, widgets: fw}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireProblem(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) problem.Problem {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, problem.ContentType, rec.Header().Get("Content-Type"))
	p := decode[problem.Problem](t, rec)
	assert.Equal(t, code, p.Code)
	assert.NotEmpty(t, p.RequestID)
	return p
}

func TestHealthRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[health.ReadinessResponse](t, rec).Ready)
}

func TestCatalog_List(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[CatalogResponse](t, rec)
	assert.Equal(t, 4, all.Total)
	assert.Equal(t, "1", all.Items[0].ID)

	rec = ts.do(t, http.MethodGet, "/api/v1/catalog?q=SINTEL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[CatalogResponse](t, rec)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "3", found.Items[0].ID)
	assert.Equal(t, "SINTEL", found.Query)

	rec = ts.do(t, http.MethodGet, "/api/v1/catalog?q=nothing-matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"query":"nothing-matches"}`, rec.Body.String())
}

func TestCatalog_GetVideo(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/catalog/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tears of Steel", decode[map[string]any](t, rec)["title"])

	rec = ts.do(t, http.MethodGet, "/api/v1/catalog/99", nil)
	requireProblem(t, rec, http.StatusNotFound, "VIDEO_NOT_FOUND")
}

func TestCatalog_M3U(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/catalog.m3u", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/x-mpegurl", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "#EXTM3U"))
	assert.Contains(t, rec.Body.String(), "Big Buck Bunny")
}

func TestWidgets(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/widgets/weather", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"loading","data":null}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/widgets/stocks", nil)
	requireProblem(t, rec, http.StatusNotFound, "WIDGET_NOT_FOUND")

	rec = ts.do(t, http.MethodPost, "/api/v1/widgets/crypto/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{widgets.CryptoName}, ts.widgets.refreshed)
}

func TestWidgets_ThrottledRefreshCarriesSnapshot(t *testing.T) {
	ts := newTestServer(t)
	ts.widgets.refreshErr = widgets.ErrThrottled

	rec := ts.do(t, http.MethodPost, "/api/v1/widgets/weather/refresh", nil)
	requireProblem(t, rec, http.StatusTooManyRequests, "THROTTLED")
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	body := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"status": "loading", "data": nil}, body["snapshot"])
}

func TestWidgets_RefreshLimiterRejectsBursts(t *testing.T) {
	ts := newTestServer(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 10; i++ {
		last = ts.do(t, http.MethodPost, "/api/v1/widgets/weather/refresh", nil)
	}
	requireProblem(t, last, http.StatusTooManyRequests, "THROTTLED")
	assert.Less(t, len(ts.widgets.refreshed), 10)
}
