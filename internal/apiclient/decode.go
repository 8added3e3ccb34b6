package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// unwrap decodes raw as T, or as the object under key when the API wraps
// its answer, e.g. {"artwork": {...}}.
func unwrap[T any](raw json.RawMessage, key string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if inner, ok := envelope[key]; ok {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '{' {
			raw = inner
		}
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// unwrapList decodes a bare JSON array or the array under key.
func unwrapList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] != '[' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		inner, ok := envelope[key]
		if !ok {
			return nil, fmt.Errorf("missing %q in response", key)
		}
		raw = inner
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
