// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")
)

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Problems []FieldError
}

// FieldError names the invalid field by its YAML path.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: msg})
}
