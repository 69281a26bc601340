// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecrets_SimpleMap(t *testing.T) {
	input := map[string]any{
		"username": "admin",
		"password": "secret123",
		"host":     "example.com",
	}

	result, ok := MaskSecrets(input).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", result["username"])
	assert.Equal(t, "***", result["password"])
	assert.Equal(t, "example.com", result["host"])
}

func TestMaskSecrets_NestedSlice(t *testing.T) {
	input := []any{
		map[string]any{"apiKey": "abc", "city": "Madrid"},
		"plain",
	}

	result := MaskSecrets(input).([]any)
	assert.Equal(t, map[string]any{"apiKey": "***", "city": "Madrid"}, result[0])
	assert.Equal(t, "plain", result[1])
}

func TestMaskSecrets_NilAndPrimitives(t *testing.T) {
	assert.Nil(t, MaskSecrets(nil))
	var p *AppConfig
	assert.Nil(t, MaskSecrets(p))
	assert.Equal(t, 42, MaskSecrets(42))
	assert.Equal(t, true, MaskSecrets(true))
}

func TestRedacted_AppConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Widgets.Weather.APIKey = "owm-key"
	cfg.Store.Redis.Password = "hunter2"

	out := Redacted(cfg)

	widgets := out["widgets"].(map[string]any)
	assert.Equal(t, "***", widgets["weather"].(map[string]any)["apiKey"])
	assert.Equal(t, "", widgets["crypto"].(map[string]any)["apiKey"], "unset keys stay visibly empty")
	assert.Equal(t, "10m0s", widgets["weather"].(map[string]any)["interval"])

	store := out["store"].(map[string]any)
	assert.Equal(t, "***", store["redis"].(map[string]any)["password"])
	assert.Equal(t, "sqlite", store["backend"])
	assert.NotContains(t, out, "Version")
}

func TestIsSensitiveKey(t *testing.T) {
	for key, want := range map[string]bool{
		"password":   true,
		"PASSWORD":   true,
		"apiKey":     true,
		"api_key":    true,
		"authToken":  true,
		"city":       false,
		"keyPrefix":  false,
		"listenAddr": false,
	} {
		assert.Equal(t, want, isSensitiveKey(key), key)
	}
}
