package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("format error")

// FormatError reports a token or document that does not match the expected
// grammar. Record is the index of the top-level record, or -1 when the error
// is not tied to one.
type FormatError struct {
	Field  string
	Record int
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(ErrFormat.Error())
	if e.Record >= 0 {
		fmt.Fprintf(&b, ": record %d", e.Record)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": token %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// tokenError builds a FormatError for a bad token outside any document.
func tokenError(token string, err error) *FormatError {
	return &FormatError{Record: -1, Value: token, Err: err}
}
