// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vodplay/internal/bus"
	"github.com/ManuGH/vodplay/internal/player/ports"
)

func subscribe(t *testing.T, b bus.Bus) bus.Subscriber {
	t.Helper()
	sub, err := b.Subscribe(context.Background(), bus.TopicCommands)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })
	return sub
}

func next(t *testing.T, sub bus.Subscriber) Command {
	t.Helper()
	select {
	case msg := <-sub.C():
		cmd, ok := msg.(Command)
		require.True(t, ok, "unexpected message %T", msg)
		return cmd
	case <-time.After(time.Second):
		t.Fatal("no command published")
		return Command{}
	}
}

func TestElement_PublishesCommands(t *testing.T) {
	b := bus.NewMemoryBus()
	sub := subscribe(t, b)
	el, _ := NewLink(b).Attach(Capabilities{NativeHLS: true, PiP: true})

	require.NoError(t, el.SetSource("s1", "https://example.com/a.m3u8"))
	require.NoError(t, el.Play(context.Background()))
	require.NoError(t, el.SetCurrentTime(12.5))

	got := []Command{next(t, sub), next(t, sub), next(t, sub)}
	want := []Command{
		{Seq: 1, Target: TargetElement, SessionID: "s1", Name: "setSource", Args: map[string]any{"url": "https://example.com/a.m3u8"}},
		{Seq: 2, Target: TargetElement, Name: "play"},
		{Seq: 3, Target: TargetElement, Name: "seek", Args: map[string]any{"time": 12.5}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 12.5, el.Position())
}

func TestElement_Capabilities(t *testing.T) {
	el, factory := NewLink(bus.NewMemoryBus()).Attach(Capabilities{Engine: true})

	assert.False(t, el.CanPlayNative(ports.HLSMimeType))
	assert.False(t, el.PiPEnabled())
	assert.True(t, factory.Supported())

	native, _ := NewLink(bus.NewMemoryBus()).Attach(Capabilities{NativeHLS: true})
	assert.True(t, native.CanPlayNative(ports.HLSMimeType))
	assert.False(t, native.CanPlayNative("video/mp4"))
}

func TestElement_MirrorsReportedEvents(t *testing.T) {
	el, _ := NewLink(bus.NewMemoryBus()).Attach(Capabilities{PiP: true})
	assert.True(t, el.Paused())
	assert.Equal(t, 1.0, el.Volume())

	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaPlay})
	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaVolumeChange, Volume: 0.4, Muted: true})
	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaFullscreen, Active: true})
	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaEnterPiP})
	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaTimeUpdate, CurrentTime: 42})

	assert.False(t, el.Paused())
	assert.Equal(t, 0.4, el.Volume())
	assert.True(t, el.Muted())
	assert.True(t, el.IsFullscreen())
	assert.True(t, el.PiPActive())
	assert.Equal(t, 42.0, el.Position())

	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaPause})
	el.ObserveMediaEvent(ports.MediaEvent{Kind: ports.MediaLeavePiP})
	assert.True(t, el.Paused())
	assert.False(t, el.PiPActive())
}

func TestEngine_LifecycleCommands(t *testing.T) {
	b := bus.NewMemoryBus()
	sub := subscribe(t, b)
	_, factory := NewLink(b).Attach(Capabilities{Engine: true})

	cfg := ports.DefaultEngineConfig()
	eng, err := factory.New("s2", cfg)
	require.NoError(t, err)

	create := next(t, sub)
	assert.Equal(t, TargetEngine, create.Target)
	assert.Equal(t, "s2", create.SessionID)
	assert.Equal(t, "create", create.Name)
	assert.Equal(t, cfg.Options(), create.Args["config"])

	require.NoError(t, eng.LoadSource("https://example.com/b.m3u8"))
	require.NoError(t, eng.SetLevel(2))
	require.NoError(t, eng.Destroy())
	require.NoError(t, eng.Destroy())

	assert.Equal(t, "loadSource", next(t, sub).Name)
	level := next(t, sub)
	assert.Equal(t, "setLevel", level.Name)
	assert.Equal(t, 2, level.Args["level"])
	assert.Equal(t, "destroy", next(t, sub).Name)

	assert.ErrorIs(t, eng.StartLoad(), ErrEngineDestroyed)
	select {
	case msg := <-sub.C():
		t.Fatalf("unexpected command after destroy: %+v", msg)
	default:
	}
}

func TestLink_PublishTimeoutReturnsError(t *testing.T) {
	b := bus.NewMemoryBus()
	sub := subscribe(t, b)
	el, _ := NewLink(b).Attach(Capabilities{})

	// Fill the subscriber buffer so the next publish blocks.
	for {
		if len(sub.C()) == cap(sub.C()) {
			break
		}
		require.NoError(t, el.Pause())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, el.Play(ctx))
}
