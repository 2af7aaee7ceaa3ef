package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/zarlcorp/zcensus/internal/person"
)

// ErrDuplicateBinding is returned when a (record, field) pair is bound twice.
var ErrDuplicateBinding = errors.New("duplicate codec binding")

// Binding attaches a codec to one field of one record type. Record is the Go
// type name and Field the Go field name.
type Binding struct {
	Record string
	Field  string
	Codec  FieldCodec
}

// Registry is an ordered association list of bindings.
// Fields without a binding use the container format's native encoding.
type Registry struct {
	bindings []Binding
}

// NewRegistry builds a registry from bindings, rejecting duplicates.
func NewRegistry(bindings ...Binding) (*Registry, error) {
	r := &Registry{}
	for _, b := range bindings {
		if err := r.Bind(b.Record, b.Field, b.Codec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Default returns the census bindings: dates and genders on both record
// types, and the delimited credit card list on Person.
func Default() *Registry {
	date := Erase[time.Time](Date{})
	gender := Erase[person.Gender](Gender{})
	return &Registry{bindings: []Binding{
		{Record: "Person", Field: "CreditCardNumbers", Codec: Erase[[]string](Delimited{Sep: DefaultDelimiter})},
		{Record: "Person", Field: "BirthDate", Codec: date},
		{Record: "Person", Field: "Gender", Codec: gender},
		{Record: "Child", Field: "BirthDate", Codec: date},
		{Record: "Child", Field: "Gender", Codec: gender},
	}}
}

// Bind adds a binding.
func (r *Registry) Bind(record, field string, c FieldCodec) error {
	if c == nil {
		return fmt.Errorf("bind %s.%s: nil codec", record, field)
	}
	if _, ok := r.Lookup(record, field); ok {
		return fmt.Errorf("bind %s.%s: %w", record, field, ErrDuplicateBinding)
	}
	r.bindings = append(r.bindings, Binding{Record: record, Field: field, Codec: c})
	return nil
}

// Lookup returns the codec bound to record.field. A nil registry has no
// bindings.
func (r *Registry) Lookup(record, field string) (FieldCodec, bool) {
	if r == nil {
		return nil, false
	}
	for _, b := range r.bindings {
		if b.Record == record && b.Field == field {
			return b.Codec, true
		}
	}
	return nil, false
}

// Bindings returns a copy of the bindings in registration order.
func (r *Registry) Bindings() []Binding {
	if r == nil {
		return nil
	}
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}
