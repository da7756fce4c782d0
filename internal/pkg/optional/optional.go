// Package optional distinguishes an absent JSON key from an explicit null.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds a field of a partial update. Set is true when the key was present
// in the payload, Null when it was present with a null value.
type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a present, non-null value
func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

// Null returns a present null value
func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called for keys present in the payload
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Null = true
		var zero T
		v.Value = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Value)
}

// MarshalJSON writes null for absent or null values
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Set || v.Null {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// Present reports whether the key carried a non-null value
func (v Value[T]) Present() bool {
	return v.Set && !v.Null
}

// Ptr returns a pointer to the value, or nil when absent or null
func (v Value[T]) Ptr() *T {
	if !v.Present() {
		return nil
	}
	val := v.Value
	return &val
}
