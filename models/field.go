package models

import "errors"

var (
	// ErrNullNotAllowed is returned when an explicit null targets a column that cannot be null
	ErrNullNotAllowed = errors.New("field cannot be cleared")

	// ErrInvalidKey is returned when a natural key has a zero component
	ErrInvalidKey = errors.New("invalid natural key")
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldValue
	fieldNull
)

// Field is a single column of a partial update.
//
// The zero value is unset: the column is left as stored. Set carries a new
// value and Null asks for the column to be cleared. Unset and Null are never
// the same thing.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a field carrying v
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldValue, value: v}
}

// Null returns a field that clears the column
func Null[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

// FromPtr maps a nil pointer to Null and anything else to Set
func FromPtr[T any](v *T) Field[T] {
	if v == nil {
		return Null[T]()
	}
	return Set(*v)
}

// IsSet reports whether the field was supplied, either as a value or as null
func (f Field[T]) IsSet() bool {
	return f.state != fieldUnset
}

// IsNull reports whether the field explicitly clears the column
func (f Field[T]) IsNull() bool {
	return f.state == fieldNull
}

// Get returns the carried value. ok is false for unset and null fields.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldValue
}

// SQLValue returns the value to bind for a supplied field, nil for null
func (f Field[T]) SQLValue() any {
	if f.state != fieldValue {
		return nil
	}
	return f.value
}

// ApplyValue writes the field into a non-nullable destination
func (f Field[T]) ApplyValue(dst *T) error {
	switch f.state {
	case fieldValue:
		*dst = f.value
	case fieldNull:
		return ErrNullNotAllowed
	}
	return nil
}

// ApplyPtr writes the field into a nullable destination; null clears it
func (f Field[T]) ApplyPtr(dst **T) {
	switch f.state {
	case fieldValue:
		v := f.value
		*dst = &v
	case fieldNull:
		*dst = nil
	}
}

// clonePtr returns a pointer to a copy of *p, or nil
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
