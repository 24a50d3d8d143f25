package repository

import (
	"encoding/json"
	"fmt"
)

// JSON adapts a Go value to a jsonb column for row scanning.
// Domain scan functions use it for slice and map fields, then read V.
type JSON[T any] struct {
	V T
}

// Scan implements sql.Scanner. Nil columns leave V at its zero value.
func (j *JSON[T]) Scan(src any) error {
	if src == nil {
		var zero T
		j.V = zero
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	return json.Unmarshal(data, &j.V)
}

// MarshalJSONValue serializes v for use as a jsonb statement argument.
func MarshalJSONValue(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb value: %w", err)
	}
	return data, nil
}
