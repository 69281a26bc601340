// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vodplay/internal/player"
	"github.com/ManuGH/vodplay/internal/remote"
)

type sseFrame struct {
	id    string
	event string
	data  string
}

// readFrames parses event-stream frames onto a channel until the body ends.
func readFrames(t *testing.T, resp *http.Response) <-chan sseFrame {
	t.Helper()
	out := make(chan sseFrame, 64)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(resp.Body)
		var f sseFrame
		for sc.Scan() {
			line := sc.Text()
			switch {
			case line == "":
				if f.event != "" {
					out <- f
				}
				f = sseFrame{}
			case strings.HasPrefix(line, "id:"):
				f.id = fieldValue(line, "id:")
			case strings.HasPrefix(line, "event:"):
				f.event = fieldValue(line, "event:")
			case strings.HasPrefix(line, "data:"):
				f.data = fieldValue(line, "data:")
			}
		}
	}()
	return out
}

// fieldValue strips the field name and the optional space after the colon.
func fieldValue(line, field string) string {
	return strings.TrimPrefix(strings.TrimPrefix(line, field), " ")
}

func waitFrame(t *testing.T, frames <-chan sseFrame, match func(sseFrame) bool) sseFrame {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			require.True(t, ok, "stream ended")
			if match(f) {
				return f
			}
		case <-deadline:
			t.Fatal("frame not received")
			return sseFrame{}
		}
	}
}

func post(t *testing.T, base, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(base+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestStream_StateAndCommands(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/player/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	frames := readFrames(t, resp)

	first := waitFrame(t, frames, func(f sseFrame) bool { return true })
	require.Equal(t, StreamEventState, first.event)
	var initial player.View
	require.NoError(t, json.Unmarshal([]byte(first.data), &initial))
	assert.False(t, initial.Attached)
	assert.Nil(t, initial.CurrentVideo)

	require.Equal(t, http.StatusOK, post(t, srv.URL, "/api/v1/player/view",
		AttachRequest{Capabilities: remote.Capabilities{NativeHLS: true}}).StatusCode)

	attached := waitFrame(t, frames, func(f sseFrame) bool {
		if f.event != StreamEventState {
			return false
		}
		var v player.View
		return json.Unmarshal([]byte(f.data), &v) == nil && v.Attached
	})
	assert.Contains(t, attached.data, `"mode":"none"`)

	require.Equal(t, http.StatusOK, post(t, srv.URL, "/api/v1/player/select", SelectRequest{ID: "3"}).StatusCode)

	// The state change and the setSource command may arrive in either order.
	var command, selected *sseFrame
	for command == nil || selected == nil {
		f := waitFrame(t, frames, func(f sseFrame) bool {
			return (f.event == StreamEventCommand && strings.Contains(f.data, `"setSource"`)) ||
				(f.event == StreamEventState && strings.Contains(f.data, `"id":"3"`))
		})
		if f.event == StreamEventCommand {
			command = &f
		} else {
			selected = &f
		}
	}

	assert.NotEmpty(t, command.id)
	var cmd remote.Command
	require.NoError(t, json.Unmarshal([]byte(command.data), &cmd))
	assert.Equal(t, remote.TargetElement, cmd.Target)
	assert.Equal(t, "view-1", cmd.SessionID)
	assert.Contains(t, cmd.Args["url"], "sintel")
	assert.Contains(t, selected.data, `"mode":"native"`)
}

func TestStream_KeepAlive(t *testing.T) {
	ts := newTestServer(t)
	srv := NewServer(Config{KeepAlive: 20 * time.Millisecond}, ts.server.deps)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.URL+"/api/v1/player/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	sc := bufio.NewScanner(resp.Body)
	found := make(chan struct{})
	go func() {
		for sc.Scan() {
			if sc.Text() == ": ping" {
				close(found)
				return
			}
		}
	}()
	select {
	case <-found:
	case <-time.After(2 * time.Second):
		t.Fatal("no keepalive comment")
	}
}
