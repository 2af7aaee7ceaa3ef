package person

import (
	"errors"
	"fmt"
	"strconv"
)

// bounds on generated collections
const (
	MinCreditCards = 1
	MaxCreditCards = 5
	MaxPhones      = 5
	MaxChildren    = 2

	CreditCardDigits = 16
	PhoneDigits      = 11

	PhoneMin int64 = 80000000000
	PhoneMax int64 = 90000000000 // exclusive
)

// ErrInvalidRecord is returned when a record falls outside generated bounds.
var ErrInvalidRecord = errors.New("invalid record")

// Validate checks a person against the bounds the generator guarantees.
func Validate(p Person) error {
	if n := len(p.CreditCardNumbers); n < MinCreditCards || n > MaxCreditCards {
		return invalid(p.ID, "creditCardNumbers", "has %d entries, want %d-%d", n, MinCreditCards, MaxCreditCards)
	}
	for i, cc := range p.CreditCardNumbers {
		if len(cc) != CreditCardDigits || !allDigits(cc) {
			return invalid(p.ID, fmt.Sprintf("creditCardNumbers[%d]", i), "%q is not %d digits", cc, CreditCardDigits)
		}
	}

	if n := len(p.Phones); n > MaxPhones {
		return invalid(p.ID, "phones", "has %d entries, want at most %d", n, MaxPhones)
	}
	for i, ph := range p.Phones {
		if !validPhone(ph) {
			return invalid(p.ID, fmt.Sprintf("phones[%d]", i), "%q is not an %d-digit number in [%d, %d)", ph, PhoneDigits, PhoneMin, PhoneMax)
		}
	}

	if n := len(p.Children); n > MaxChildren {
		return invalid(p.ID, "children", "has %d entries, want at most %d", n, MaxChildren)
	}

	if p.Age < 0 {
		return invalid(p.ID, "age", "is negative (%d)", p.Age)
	}
	if p.Salary < 0 {
		return invalid(p.ID, "salary", "is negative (%g)", p.Salary)
	}

	return nil
}

// ValidatePopulation validates every person, stopping at the first failure.
func ValidatePopulation(people []Person) error {
	for _, p := range people {
		if err := Validate(p); err != nil {
			return err
		}
	}
	return nil
}

func invalid(id int, field, format string, args ...any) error {
	return fmt.Errorf("%w: person %d: %s %s", ErrInvalidRecord, id, field, fmt.Sprintf(format, args...))
}

func validPhone(s string) bool {
	if len(s) != PhoneDigits || !allDigits(s) {
		return false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false
	}
	return n >= PhoneMin && n < PhoneMax
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
