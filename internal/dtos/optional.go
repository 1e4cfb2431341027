package dtos

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Optional unterscheidet "nicht gesendet" (Set=false) von "explizit geleert"
// (Set=true, Value=nil) in Patch-Requests.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some baut ein gesetztes Optional mit Wert.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null baut ein gesetztes Optional ohne Wert.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply überschreibt dst, wenn das Feld gesendet wurde, und meldet eine Änderung.
func (o Optional[T]) Apply(dst **T, equal func(a, b T) bool) bool {
	if !o.Set {
		return false
	}
	if o.Value == nil {
		if *dst == nil {
			return false
		}
		*dst = nil
		return true
	}
	if *dst != nil && equal(**dst, *o.Value) {
		return false
	}
	v := *o.Value
	*dst = &v
	return true
}
