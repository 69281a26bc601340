// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widgets

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"

	"github.com/ManuGH/vodplay/internal/cache"
)

type counter struct{ N int }

func testPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:       time.Hour,
		RefetchRate:    rate.Inf,
		RefetchBurst:   1,
		BreakerFails:   2,
		BreakerTimeout: time.Hour,
		FallbackError:  "Failed to fetch counter",
	}
}

func TestPoller_InitialState(t *testing.T) {
	p := NewPoller("counter", testPollerConfig(), func(context.Context) (counter, error) {
		return counter{}, nil
	}, nil)

	snap := p.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Nil(t, snap.Data)
	assert.Empty(t, snap.Error)
}

func TestPoller_RefetchSuccessThenErrorKeepsData(t *testing.T) {
	var calls atomic.Int32
	errBoom := &APIError{API: "Counter", Status: 503}
	p := NewPoller("counter", testPollerConfig(), func(context.Context) (counter, error) {
		n := calls.Add(1)
		if n == 2 {
			return counter{}, errBoom
		}
		return counter{N: int(n)}, nil
	}, nil)

	snap, err := p.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusReady, snap.Status)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 1, snap.Data.N)
	assert.False(t, snap.UpdatedAt.IsZero())

	snap, err = p.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Counter API error: 503", snap.Error)
	require.NotNil(t, snap.Data, "last good value survives a failed fetch")
	assert.Equal(t, 1, snap.Data.N)

	snap, err = p.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusReady, snap.Status)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 3, snap.Data.N)
}

func TestPoller_ConfigErrorBlocksSchedule(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller("counter", testPollerConfig(), func(context.Context) (counter, error) {
		calls.Add(1)
		return counter{}, &ConfigError{Setting: "COUNTER_KEY"}
	}, nil)

	snap, err := p.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "API key not configured. Please add COUNTER_KEY to the configuration", snap.Error)
	assert.True(t, p.isBlocked())

	// Config errors never trip the breaker.
	for i := 0; i < 5; i++ {
		_, _ = p.Refetch(context.Background())
	}
	assert.EqualValues(t, 6, calls.Load())
	assert.Equal(t, "closed", string(p.breaker.State()))

	p.Reconfigure()
	assert.False(t, p.isBlocked())
}

func TestPoller_CircuitOpenUsesFallback(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller("counter", testPollerConfig(), func(context.Context) (counter, error) {
		calls.Add(1)
		return counter{}, errors.New("")
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := p.Refetch(context.Background())
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, calls.Load(), "breaker opened after two failures")
	snap := p.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Failed to fetch counter", snap.Error)
}

func TestPoller_RefetchThrottled(t *testing.T) {
	cfg := testPollerConfig()
	cfg.RefetchRate = rate.Every(time.Hour)
	cfg.RefetchBurst = 1
	var calls atomic.Int32
	p := NewPoller("counter", cfg, func(context.Context) (counter, error) {
		calls.Add(1)
		return counter{N: 7}, nil
	}, nil)

	_, err := p.Refetch(context.Background())
	require.NoError(t, err)
	snap, err := p.Refetch(context.Background())
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, 7, snap.Data.N)
	assert.EqualValues(t, 1, calls.Load())
}

func TestPoller_CanceledFetchKeepsState(t *testing.T) {
	p := NewPoller("counter", testPollerConfig(), func(ctx context.Context) (counter, error) {
		return counter{}, ctx.Err()
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := p.Refetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Empty(t, snap.Error)
}

func TestPoller_WarmStartFromCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(0)

	first := NewPoller("counter", testPollerConfig(), func(context.Context) (counter, error) {
		return counter{N: 42}, nil
	}, c)
	_, err := first.Refetch(ctx)
	require.NoError(t, err)

	second := NewPoller("counter", testPollerConfig(), func(context.Context) (counter, error) {
		return counter{}, errors.New("offline")
	}, c)
	second.warmStart(ctx)
	snap := second.Snapshot()
	assert.Equal(t, StatusReady, snap.Status)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 42, snap.Data.N)
}

func TestPoller_RunFetchesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testPollerConfig()
	cfg.Interval = 5 * time.Millisecond
	var calls atomic.Int32
	p := NewPoller("counter", cfg, func(context.Context) (counter, error) {
		return counter{N: int(calls.Add(1))}, nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, StatusReady, p.Snapshot().Status)
}

func TestPoller_RunSkipsTicksWhileBlocked(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testPollerConfig()
	cfg.Interval = 2 * time.Millisecond
	var calls atomic.Int32
	var configured atomic.Bool
	p := NewPoller("counter", cfg, func(context.Context) (counter, error) {
		calls.Add(1)
		if !configured.Load() {
			return counter{}, &ConfigError{Setting: "COUNTER_KEY"}
		}
		return counter{N: 1}, nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return p.Snapshot().Status == StatusError }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load(), "no retry loop on a configuration error")

	configured.Store(true)
	p.Reconfigure()
	assert.Eventually(t, func() bool { return p.Snapshot().Status == StatusReady }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
