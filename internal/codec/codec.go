// Package codec holds the per-field wire encodings used by the census
// document: calendar dates, gender labels, and delimited token lists.
//
// Codecs are pure. A Registry maps (record type, field) pairs to codecs so
// the document layer can look them up without struct tags.
package codec

import "fmt"

// Codec converts a field value of type T to and from a scalar string token.
// Decode must invert Encode over the values the generator produces.
type Codec[T any] interface {
	Encode(T) string
	Decode(string) (T, error)
}

// FieldCodec is a type-erased Codec stored in a Registry.
type FieldCodec interface {
	Encode(v any) (string, error)
	Decode(token string) (any, error)
}

// Erase adapts a typed codec for use in a Registry.
func Erase[T any](c Codec[T]) FieldCodec {
	return erased[T]{c: c}
}

type erased[T any] struct {
	c Codec[T]
}

func (e erased[T]) Encode(v any) (string, error) {
	t, ok := v.(T)
	if !ok {
		var want T
		return "", fmt.Errorf("codec: cannot encode %T, want %T", v, want)
	}
	return e.c.Encode(t), nil
}

func (e erased[T]) Decode(token string) (any, error) {
	v, err := e.c.Decode(token)
	if err != nil {
		return nil, err
	}
	return v, nil
}
