// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widgets

import (
	"errors"
	"fmt"
)

// ErrUnknownWidget is returned for widget names the Service does not host.
var ErrUnknownWidget = errors.New("unknown widget")

// ConfigError reports a missing or placeholder API key. No request is made
// and scheduled polling pauses until a manual refetch or a config reload.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return "API key not configured. Please add " + e.Setting + " to the configuration"
}

// APIError is a non-2xx upstream answer.
type APIError struct {
	API    string // "Weather" or "Crypto"
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.API, e.Status)
}
