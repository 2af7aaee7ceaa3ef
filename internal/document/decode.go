package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/zarlcorp/zcensus/internal/codec"
)

// Decode reads a document written by Encode. The top level must be an array
// of objects. Any field that fails to decode aborts the whole document with
// a *codec.FormatError naming the field path and record index.
func Decode[T any](r io.Reader, reg *codec.Registry) ([]T, error) {
	t := reflect.TypeFor[T]()
	if !isRecord(t) {
		return nil, ErrNotRecords
	}

	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, readError(err)
	}
	// only whitespace may follow the top-level value
	if _, err := dec.Token(); err != io.EOF {
		var syn *json.SyntaxError
		if err != nil && !errors.As(err, &syn) {
			return nil, readError(err)
		}
		return nil, shapeError(-1, "trailing data after top-level list")
	}

	if firstByte(raw) != '[' {
		return nil, shapeError(-1, "top level is not a list of records")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &codec.FormatError{Record: -1, Err: err}
	}

	out := make([]T, len(elems))
	for i, elem := range elems {
		fields, err := objectFields(elem)
		if err != nil {
			return nil, shapeError(i, "record is not an object")
		}
		if err := decodeStruct(fields, reflect.ValueOf(&out[i]).Elem(), reg, "", i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Unmarshal is Decode from a byte slice.
func Unmarshal[T any](data []byte, reg *codec.Registry) ([]T, error) {
	return Decode[T](bytes.NewReader(data), reg)
}

func decodeStruct(fields map[string]json.RawMessage, v reflect.Value, reg *codec.Registry, path string, record int) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := LowerCamel(sf.Name)
		raw, ok := fields[key]
		if !ok {
			continue
		}
		fieldPath := joinPath(path, key)
		fv := v.Field(i)

		if c, ok := reg.Lookup(t.Name(), sf.Name); ok {
			if err := decodeToken(c, raw, fv, fieldPath, record); err != nil {
				return err
			}
			continue
		}

		switch {
		case sf.Type.Kind() == reflect.Slice && isRecord(sf.Type.Elem()):
			if err := decodeRecords(raw, fv, reg, fieldPath, record); err != nil {
				return err
			}
		case isRecord(sf.Type):
			nested, err := objectFields(raw)
			if err != nil {
				return &codec.FormatError{Field: fieldPath, Record: record, Value: string(raw), Err: errors.New("not an object")}
			}
			if err := decodeStruct(nested, fv, reg, fieldPath, record); err != nil {
				return err
			}
		default:
			// encoding/json leaves the field untouched on null
			if firstByte(raw) == 'n' {
				return &codec.FormatError{Field: fieldPath, Record: record, Value: string(raw), Err: errors.New("null value")}
			}
			if err := json.Unmarshal(raw, fv.Addr().Interface()); err != nil {
				return &codec.FormatError{Field: fieldPath, Record: record, Value: string(raw), Err: err}
			}
		}
	}
	return nil
}

func decodeToken(c codec.FieldCodec, raw json.RawMessage, fv reflect.Value, path string, record int) error {
	if firstByte(raw) != '"' {
		return &codec.FormatError{Field: path, Record: record, Value: string(raw), Err: errors.New("expected a string token")}
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return &codec.FormatError{Field: path, Record: record, Value: string(raw), Err: err}
	}

	val, err := c.Decode(token)
	if err != nil {
		fe := &codec.FormatError{Field: path, Record: record, Value: token, Err: err}
		var inner *codec.FormatError
		if errors.As(err, &inner) {
			fe.Err = inner.Err
		}
		return fe
	}

	rv := reflect.ValueOf(val)
	if !rv.IsValid() || !rv.Type().AssignableTo(fv.Type()) {
		return fmt.Errorf("field %s: codec produced %T, want %s", path, val, fv.Type())
	}
	fv.Set(rv)
	return nil
}

func decodeRecords(raw json.RawMessage, fv reflect.Value, reg *codec.Registry, path string, record int) error {
	if firstByte(raw) != '[' {
		return &codec.FormatError{Field: path, Record: record, Value: string(raw), Err: errors.New("not a list")}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return &codec.FormatError{Field: path, Record: record, Err: err}
	}

	s := reflect.MakeSlice(fv.Type(), len(elems), len(elems))
	for i, elem := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		fields, err := objectFields(elem)
		if err != nil {
			return &codec.FormatError{Field: elemPath, Record: record, Value: string(elem), Err: errors.New("not an object")}
		}
		if err := decodeStruct(fields, s.Index(i), reg, elemPath, record); err != nil {
			return err
		}
	}
	fv.Set(s)
	return nil
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	if firstByte(raw) != '{' {
		return nil, errors.New("not an object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// readError classifies a failure reading the top-level value: malformed or
// empty input is a format error, anything else came from the reader.
func readError(err error) error {
	var syn *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return shapeError(-1, "empty document")
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syn):
		return &codec.FormatError{Record: -1, Err: err}
	}
	return fmt.Errorf("read document: %w", err)
}

func shapeError(record int, msg string) error {
	return &codec.FormatError{Record: record, Err: errors.New(msg)}
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
