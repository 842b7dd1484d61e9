//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
)

// Patch is a field of a partial update. It distinguishes a key that was
// absent from the request (Set == false) from an explicit null (Set && Null).
type Patch[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// PatchValue returns a Patch that sets v.
func PatchValue[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: v}
}

// PatchNull returns a Patch that clears the field.
func PatchNull[T any]() Patch[T] {
	return Patch[T]{Set: true, Null: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the key is present.
func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		p.Null = true
		var zero T
		p.Value = zero
		return nil
	}
	p.Null = false
	return json.Unmarshal(b, &p.Value)
}

// Ptr returns the patched value as a pointer, nil when the patch clears the field.
func (p Patch[T]) Ptr() *T {
	if !p.Set || p.Null {
		return nil
	}
	v := p.Value
	return &v
}
