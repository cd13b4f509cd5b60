package model

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes an absent field from an explicit null in a PATCH body.
// The zero value is "absent"; Null() marks an explicit clear.
type Nullable[T any] struct {
	Value *T
	Set   bool
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Value: &v, Set: true}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n Nullable[T]) IsZero() bool {
	return !n.Set
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
