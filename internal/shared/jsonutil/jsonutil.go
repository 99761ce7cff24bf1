// Package jsonutil handles jsonb column round-trips. A stored SQL NULL or
// JSON null always reads back as an empty list, never as nil.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// MarshalList encodes a string list for a jsonb column; nil encodes as [].
func MarshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return data, nil
}

// UnmarshalList decodes a jsonb column into a string list, mapping NULL and
// JSON null to [].
func UnmarshalList(data []byte) ([]string, error) {
	if len(data) == 0 || string(data) == "null" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// MarshalValue encodes any value for a jsonb column; nil maps pass as {}.
func MarshalValue(v any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return data, nil
}

// UnmarshalSlice decodes a jsonb array column into dest (a pointer to a
// slice), mapping NULL to an empty slice.
func UnmarshalSlice(data []byte, dest any) error {
	if len(data) == 0 || string(data) == "null" {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode array: %w", err)
	}
	return nil
}

// UnmarshalMap decodes a jsonb object column, mapping NULL to {}.
func UnmarshalMap(data []byte) (map[string]any, error) {
	if len(data) == 0 || string(data) == "null" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
