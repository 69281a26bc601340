// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bus

import (
	"context"
	"testing"
	"time"

	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counter.Write(metric))
	return metric.GetCounter().GetValue()
}

func TestMemoryBusDeliversInOrder(t *testing.T) {
	b := NewMemoryBus()
	sub, err := b.Subscribe(context.Background(), TopicCommands)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Publish(context.Background(), TopicCommands, i))
	}
	for i := 0; i < 3; i++ {
		require.Equal(t, i, <-sub.C())
	}
}

func TestMemoryBusPublishContextTimeoutIncrementsDropMetrics(t *testing.T) {
	b := NewMemoryBus()
	sub, err := b.Subscribe(context.Background(), "topic")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	// Fill subscriber channel to capacity so next publish blocks.
	for i := 0; i < cap(sub.C()); i++ {
		require.NoError(t, b.Publish(context.Background(), "topic", "msg"))
	}

	initial := getCounterValue(t, metrics.BusDroppedTotal.WithLabelValues("topic", "timeout"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = b.Publish(ctx, "topic", "blocked")
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	final := getCounterValue(t, metrics.BusDroppedTotal.WithLabelValues("topic", "timeout"))
	require.Greater(t, final, initial, "expected reasoned bus drop counter to increase")
}

func TestMemoryBusTryPublishDropsWhenFull(t *testing.T) {
	b := NewMemoryBus()
	sub, err := b.Subscribe(context.Background(), "full")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	for i := 0; i < cap(sub.C()); i++ {
		b.TryPublish("full", i)
	}
	initial := getCounterValue(t, metrics.BusDroppedTotal.WithLabelValues("full", "full"))
	b.TryPublish("full", "overflow")
	require.Equal(t, initial+1, getCounterValue(t, metrics.BusDroppedTotal.WithLabelValues("full", "full")))
}

func TestMemoryBusCloseIsIdempotent(t *testing.T) {
	b := NewMemoryBus()
	sub, err := b.Subscribe(context.Background(), "topic")
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.C()
	require.False(t, ok)
	require.NoError(t, b.Publish(context.Background(), "topic", "after-close"))
}

func TestMemoryBusPublishRejectsNilContext(t *testing.T) {
	b := NewMemoryBus()
	//nolint:staticcheck // nil context is the case under test
	err := b.Publish(nil, "topic", "msg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "context is nil")
}
