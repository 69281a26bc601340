// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"reflect"
	"strings"
)

// ChangeSummary describes the result of comparing two AppConfigs.
type ChangeSummary struct {
	ChangedFields   []string // YAML paths of changed fields
	RestartRequired bool     // True if any changed field is not tagged reload:"hot"
}

// Diff compares two configurations field by field. Nil and empty slices
// compare equal.
func Diff(old, next AppConfig) ChangeSummary {
	s := ChangeSummary{}
	s.compareStruct("", false, reflect.ValueOf(old), reflect.ValueOf(next))
	return s
}

func (s *ChangeSummary) compareStruct(prefix string, hot bool, oldVal, nextVal reflect.Value) {
	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if !f.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		fieldHot := hot || f.Tag.Get("reload") == "hot"

		ov, nv := oldVal.Field(i), nextVal.Field(i)
		if ov.Kind() == reflect.Struct && ov.Type().PkgPath() != "time" {
			s.compareStruct(path, fieldHot, ov, nv)
			continue
		}
		if !reflect.DeepEqual(canonical(ov), canonical(nv)) {
			s.ChangedFields = append(s.ChangedFields, path)
			if !fieldHot {
				s.RestartRequired = true
			}
		}
	}
}

func canonical(v reflect.Value) any {
	if v.Kind() == reflect.Slice && v.Len() == 0 {
		return nil
	}
	return v.Interface()
}
