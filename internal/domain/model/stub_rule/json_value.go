package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// NormalizeJSON round-trips v through encoding/json so Go values built in
// test code (int, structs, typed maps) compare equal to decoded request
// bodies (float64, map[string]any).
func NormalizeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return ParseJSON(raw)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json value: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes data into generic JSON values.
func ParseJSON(data []byte) (any, error) {
	var out any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	// only whitespace may follow the value
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("failed to decode json: trailing data")
	}
	return out, nil
}

// ParseJSONObject decodes data and requires a top level object.
func ParseJSONObject(data []byte) (map[string]any, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("json value is %T, not an object", v)
	}
	return obj, nil
}

// JSONEqual reports structural JSON equality: 1 equals 1.0 and object key
// order is irrelevant. Values that cannot be encoded are never equal.
func JSONEqual(a, b any) bool {
	na, err := NormalizeJSON(a)
	if err != nil {
		return false
	}
	nb, err := NormalizeJSON(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}

// CloneJSON deep copies a JSON value. Unencodable values are returned as is.
func CloneJSON(v any) any {
	if v == nil {
		return nil
	}
	clone, err := NormalizeJSON(v)
	if err != nil {
		return v
	}
	return clone
}

// MarshalJSONValue encodes v, returning an empty object for nil.
func MarshalJSONValue(v any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json response: %w", err)
	}
	return data, nil
}
