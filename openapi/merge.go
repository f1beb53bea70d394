package openapi

import (
	"encoding/json"
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// Merge deep-merges every patch into dst, left to right. dst must be a
// non-nil pointer. Patches may be any JSON-shaped value: structs from this
// package, maps, or raw JSON. Objects merge key by key with later values
// winning; arrays and scalars are replaced.
func Merge(dst any, patches ...any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("openapi: merge target must be a non-nil pointer, got %T", dst)
	}

	base, err := toObject(dst)
	if err != nil {
		return fmt.Errorf("openapi: merge target: %w", err)
	}

	for i, patch := range patches {
		if patch == nil {
			continue
		}
		src, err := toObject(patch)
		if err != nil {
			return fmt.Errorf("openapi: merge patch %d: %w", i, err)
		}
		if err := mergo.Merge(&base, src, mergo.WithOverride); err != nil {
			return fmt.Errorf("openapi: merge patch %d: %w", i, err)
		}
	}

	data, err := json.Marshal(base)
	if err != nil {
		return fmt.Errorf("openapi: merge result: %w", err)
	}
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("openapi: merge result: %w", err)
	}
	return nil
}

func toObject(v any) (map[string]any, error) {
	var data []byte
	switch raw := v.(type) {
	case json.RawMessage:
		data = raw
	case []byte:
		data = raw
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}

	obj := make(map[string]any)
	if string(data) == "null" {
		return obj, nil
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
