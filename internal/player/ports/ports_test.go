// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEngineConfigOptions(t *testing.T) {
	opts := DefaultEngineConfig().Options()

	assert.Equal(t, 3, opts["manifestLoadingMaxRetry"])
	assert.Equal(t, int64(1000), opts["manifestLoadingRetryDelay"])
	assert.Equal(t, 6, opts["fragLoadingMaxRetry"])
	assert.Equal(t, 90.0, opts["backBufferLength"])
	assert.Equal(t, 600.0, opts["maxMaxBufferLength"])
	assert.Equal(t, 500000, opts["abrEwmaDefaultEstimate"])
	assert.Equal(t, true, opts["enableWorker"])
	assert.Equal(t, false, opts["lowLatencyMode"])
}

func TestMediaEventKindKnown(t *testing.T) {
	assert.True(t, MediaLeavePiP.Known())
	assert.True(t, MediaCommandFailed.Known())
	assert.False(t, MediaEventKind("seeking").Known())
}
