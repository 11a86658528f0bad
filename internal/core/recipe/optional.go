package recipe

import (
	"bytes"
	"encoding/json"
)

// Optional marks a field that may be absent. It has three states: absent
// (omitted from JSON with omitzero), null (Null set, written back as null)
// and present. A present empty string stays present.
type Optional[T any] struct {
	Value T
	Valid bool
	Null  bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None is the absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Null is an explicit JSON null. Array elements without a value use it.
func Null[T any]() Optional[T] {
	return Optional[T]{Null: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or def when absent or null.
func (o Optional[T]) Or(def T) T {
	if !o.Valid {
		return def
	}
	return o.Value
}

// IsZero lets encoding/json omit absent values. Null is not zero.
func (o Optional[T]) IsZero() bool {
	return !o.Valid && !o.Null
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Optional[T]{Value: v, Valid: true}
	return nil
}
