package generator

import (
	"errors"
	"fmt"

	"github.com/zarlcorp/zcensus/internal/person"
)

// defaults for a generation run
const (
	DefaultCount   = 10000
	DefaultMinYear = 1930
	DefaultMaxYear = 2000
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid generator config")

// Range is an inclusive [Min, Max] bound on a list length.
type Range struct {
	Min int
	Max int
}

// Config bounds a generated population. MaxYear is exclusive.
type Config struct {
	Count       int
	MinYear     int
	MaxYear     int
	CreditCards Range
	Phones      Range
	Children    Range
}

// DefaultConfig returns the standard population bounds.
func DefaultConfig() Config {
	return Config{
		Count:       DefaultCount,
		MinYear:     DefaultMinYear,
		MaxYear:     DefaultMaxYear,
		CreditCards: Range{Min: person.MinCreditCards, Max: person.MaxCreditCards},
		Phones:      Range{Min: 0, Max: person.MaxPhones},
		Children:    Range{Min: 0, Max: person.MaxChildren},
	}
}

// Validate checks the config is internally consistent. It does not enforce
// the record bounds; person.Validate does that before serialization.
func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalidConfig, c.Count)
	}
	if c.MinYear < 1 || c.MaxYear <= c.MinYear {
		return fmt.Errorf("%w: year range [%d, %d) is empty", ErrInvalidConfig, c.MinYear, c.MaxYear)
	}
	for name, r := range map[string]Range{"credit cards": c.CreditCards, "phones": c.Phones, "children": c.Children} {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("%w: %s range [%d, %d]", ErrInvalidConfig, name, r.Min, r.Max)
		}
	}
	return nil
}
