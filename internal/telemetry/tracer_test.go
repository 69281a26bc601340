// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "vodplay", ExporterType: "grpc"})
	require.NoError(t, err)
	assert.Nil(t, provider.tp)

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, provider.ForceFlush(context.Background()))
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ExporterType: "invalid"})
	assert.EqualError(t, err, "unsupported exporter type: invalid (supported: grpc, http)")
}

func TestNewProvider_Exporters(t *testing.T) {
	// Exporter construction does not dial; spans are never exported here.
	for _, typ := range []string{"grpc", "http"} {
		t.Run(typ, func(t *testing.T) {
			p, err := NewProvider(context.Background(), Config{
				Enabled: true, ServiceName: "vodplay", ExporterType: typ,
				Endpoint: "127.0.0.1:1", Insecure: true, SamplingRate: 0,
			})
			require.NoError(t, err)
			require.NotNil(t, p.tp)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_ = p.Shutdown(ctx)
		})
	}
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestProviderWithExporter_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	p, err := NewProviderWithExporter(context.Background(), Config{ServiceName: "vodplay", SamplingRate: 1}, exporter)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = p.Shutdown(context.Background())
		_, _ = NewProvider(context.Background(), Config{})
	})

	_, span := Tracer("test").Start(context.Background(), "player.select")
	span.SetAttributes(PlayerAttributes("bbb", "", "")...)
	span.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "player.select", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, PlayerAttributes("bbb", "", "")[0])
}
