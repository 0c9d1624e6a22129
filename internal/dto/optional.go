package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Optional records whether a JSON key was present and whether it carried null,
// which plain pointers cannot tell apart.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns a present Optional carrying JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		if !o.coerce(data) {
			return err
		}
	}
	o.Valid = true
	return nil
}

// coerce accepts a numeric string for int and float64 values.
func (o *Optional[T]) coerce(data []byte) bool {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	raw = strings.TrimSpace(raw)
	switch dest := any(&o.Value).(type) {
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		*dest = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return false
		}
		*dest = v
	default:
		return false
	}
	return true
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a pointer, nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// ValidationValue exposes the inner value to the validator, nil when absent or null.
func (o Optional[T]) ValidationValue() interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

// NumericID accepts a JSON number or a numeric string. Anything else decodes
// without error but stays invalid so validation can report it per field.
type NumericID struct {
	Set   bool
	Valid bool
	Value int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericID) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Valid = false
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	n.Value = v
	n.Valid = true
	return nil
}

// ValidationValue exposes the parsed identifier to the validator.
func (n NumericID) ValidationValue() interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}

// ID builds a valid NumericID.
func ID(v int64) NumericID {
	return NumericID{Set: true, Valid: true, Value: v}
}
