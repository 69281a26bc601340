// SPDX-License-Identifier: MIT

package config

import (
	"reflect"
	"strings"
	"time"
)

const masked = "***"

// sensitiveKeywords contains keywords that indicate sensitive fields.
// Any field name containing these keywords (case-insensitive) will be masked.
var sensitiveKeywords = []string{
	"password",
	"secret",
	"token",
	"apikey",
	"api_key",
	"credential",
}

// Redacted renders cfg as a map keyed by YAML names with secrets masked,
// for the startup log line.
func Redacted(cfg AppConfig) map[string]any {
	out, _ := MaskSecrets(cfg).(map[string]any)
	return out
}

// MaskSecrets recursively masks sensitive fields in the given data structure.
// Struct fields are keyed by their YAML name. Non-empty sensitive strings
// become "***"; empty ones stay empty so a missing key is still visible.
func MaskSecrets(data any) any {
	if data == nil {
		return nil
	}
	return maskValue(reflect.ValueOf(data))
}

func maskValue(val reflect.Value) any {
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		result := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			result[key] = maskField(key, iter.Value())
		}
		return result

	case reflect.Slice, reflect.Array:
		result := make([]any, val.Len())
		for i := range result {
			result[i] = maskValue(val.Index(i))
		}
		return result

	case reflect.Struct:
		typ := val.Type()
		result := make(map[string]any, typ.NumField())
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if !field.IsExported() || name == "-" {
				continue
			}
			if name == "" {
				name = field.Name
			}
			result[name] = maskField(name, val.Field(i))
		}
		return result

	default:
		if d, ok := val.Interface().(time.Duration); ok {
			return d.String()
		}
		return val.Interface()
	}
}

func maskField(key string, v reflect.Value) any {
	if !isSensitiveKey(key) {
		return maskValue(v)
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String && v.Len() == 0 {
		return ""
	}
	return masked
}

// isSensitiveKey checks if a key name contains any sensitive keyword.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
