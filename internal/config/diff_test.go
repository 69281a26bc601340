// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiff_NoChanges(t *testing.T) {
	a := Defaults()
	b := Defaults()
	b.Widgets.Crypto.IDs = append([]string(nil), a.Widgets.Crypto.IDs...)
	assert.Equal(t, ChangeSummary{}, Diff(a, b))
}

func TestDiff_HotFieldsOnly(t *testing.T) {
	a := Defaults()
	b := Defaults()
	b.LogLevel = "debug"
	b.Widgets.Weather.APIKey = "k"
	b.Widgets.Crypto.IDs = []string{"bitcoin"}

	s := Diff(a, b)
	assert.Equal(t, []string{"logLevel", "widgets.weather.apiKey", "widgets.crypto.ids"}, s.ChangedFields)
	assert.False(t, s.RestartRequired)
}

func TestDiff_RestartRequired(t *testing.T) {
	a := Defaults()
	b := Defaults()
	b.Server.ListenAddr = ":1"
	b.Player.Engine.MaxBufferLength = time.Minute

	s := Diff(a, b)
	assert.Equal(t, []string{"server.listenAddr", "player.engine.maxBufferLength"}, s.ChangedFields)
	assert.True(t, s.RestartRequired)
}

func TestDiff_NilAndEmptySlicesEqual(t *testing.T) {
	a := Defaults()
	b := Defaults()
	a.Widgets.Crypto.IDs = nil
	b.Widgets.Crypto.IDs = []string{}
	assert.Empty(t, Diff(a, b).ChangedFields)
}
