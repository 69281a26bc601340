// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bootstrap

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vodplay/internal/config"
)

func writeConfig(t *testing.T, dir, listen string) string {
	t.Helper()
	content := `
dataDir: ` + dir + `
logLevel: warn
server:
  listenAddr: "` + listen + `"
  metricsAddr: ""
store:
  backend: memory
catalog:
  exportPath: ` + filepath.Join(dir, "catalog.m3u") + `
cache:
  backend: memory
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestWiring_BootsMinimalStack(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := WireServices(ctx, "test", "commit", "now", configPath)
	require.NoError(t, err)
	t.Cleanup(func() { c.closeAll(context.Background()) })

	require.NotNil(t, c.Server)
	require.NotNil(t, c.App)
	assert.Equal(t, "memory", c.Config.Store.Backend)

	// The first catalog entry is selected on a fresh store.
	view := c.Player.View()
	require.NotNil(t, view.CurrentVideo)
	assert.Equal(t, "1", view.CurrentVideo.ID)

	exported, err := os.ReadFile(filepath.Join(dir, "catalog.m3u"))
	require.NoError(t, err)
	assert.Contains(t, string(exported), "#EXTM3U")

	handler := c.Server.Handler()
	for _, path := range []string{"/healthz", "/readyz", "/api/v1/catalog", "/api/v1/player"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestWiring_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: floppy\n"), 0o600))

	_, err := WireServices(context.Background(), "test", "commit", "now", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestWiring_RunServesUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	listen := freeAddr(t)
	configPath := writeConfig(t, dir, listen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := WireServices(ctx, "test", "commit", "now", configPath)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	client := &http.Client{Timeout: time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + listen + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("container did not stop")
	}
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvDataDir, dir)

	path, explicit, err := resolveConfigPath("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.False(t, explicit)

	auto := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(auto, []byte("logLevel: info\n"), 0o600))
	path, explicit, err = resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, auto, path)
	assert.False(t, explicit)

	_, _, err = resolveConfigPath(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, _, err = resolveConfigPath(dir)
	assert.ErrorContains(t, err, "is a directory")
}
