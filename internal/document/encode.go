// Package document writes and reads the census document: an indented JSON
// array of record objects whose fields are rendered through the codec
// registry where bound and natively otherwise.
package document

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/zarlcorp/zcensus/internal/codec"
)

// indent is the whitespace unit for one nesting level.
const indent = "  "

// ErrNotRecords is returned when Encode or Decode is given something other
// than a slice of structs.
var ErrNotRecords = errors.New("document: records must be a slice of structs")

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Encode writes records as an indented JSON array. records must be a slice of
// structs; keys follow LowerCamel in field declaration order.
func Encode(w io.Writer, records any, reg *codec.Registry) error {
	rv := reflect.ValueOf(records)
	if rv.Kind() != reflect.Slice || !isRecord(rv.Type().Elem()) {
		return ErrNotRecords
	}

	objs, err := encodeSlice(rv, reg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(objs); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Marshal is Encode into a byte slice.
func Marshal(records any, reg *codec.Registry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records, reg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// object is a JSON object that keeps its keys in insertion order.
type object struct {
	keys   []string
	values []any
}

func (o *object) add(key string, v any) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := marshalTo(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := marshalTo(&buf, o.values[i]); err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalTo appends the JSON form of v to buf without HTML escaping, matching
// the top-level encoder.
func marshalTo(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

func encodeSlice(rv reflect.Value, reg *codec.Registry) ([]object, error) {
	objs := make([]object, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		obj, err := encodeStruct(rv.Index(i), reg)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func encodeStruct(v reflect.Value, reg *codec.Registry) (object, error) {
	t := v.Type()
	var obj object
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := LowerCamel(sf.Name)
		fv := v.Field(i)

		if c, ok := reg.Lookup(t.Name(), sf.Name); ok {
			token, err := c.Encode(fv.Interface())
			if err != nil {
				return object{}, fmt.Errorf("field %s: %w", key, err)
			}
			obj.add(key, token)
			continue
		}

		switch {
		case fv.Kind() == reflect.Slice && isRecord(sf.Type.Elem()):
			nested, err := encodeSlice(fv, reg)
			if err != nil {
				return object{}, fmt.Errorf("field %s: %w", key, err)
			}
			obj.add(key, nested)
		case isRecord(sf.Type):
			nested, err := encodeStruct(fv, reg)
			if err != nil {
				return object{}, fmt.Errorf("field %s: %w", key, err)
			}
			obj.add(key, nested)
		case fv.Kind() == reflect.Slice && fv.IsNil():
			obj.add(key, []any{})
		default:
			obj.add(key, fv.Interface())
		}
	}
	return obj, nil
}

// isRecord reports whether t is walked field by field rather than handed to
// encoding/json as a whole.
func isRecord(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	pt := reflect.PointerTo(t)
	for _, m := range []reflect.Type{jsonMarshalerType, textMarshalerType} {
		if t.Implements(m) || pt.Implements(m) {
			return false
		}
	}
	return true
}
