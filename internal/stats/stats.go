// Package stats aggregates a decoded census population.
package stats

import (
	"fmt"
	"time"

	"github.com/zarlcorp/zcensus/internal/person"
)

// Report summarizes a population.
type Report struct {
	Persons         int `json:"persons"`
	CreditCards     int `json:"credit_cards"`
	Children        int `json:"children"`
	AverageChildAge int `json:"average_child_age"`
}

// Compute counts persons and credit cards and averages child ages in whole
// years. Each child's age is truncated before averaging and the sum is
// integer-divided; a population without children averages to 0.
func Compute(people []person.Person, now time.Time) Report {
	var r Report
	ageSum := 0
	for _, p := range people {
		r.Persons++
		r.CreditCards += len(p.CreditCardNumbers)
		for _, c := range p.Children {
			ageSum += person.AgeAt(c.BirthDate, now)
			r.Children++
		}
	}
	if r.Children > 0 {
		r.AverageChildAge = ageSum / r.Children
	}
	return r
}

// String renders the report as the three summary lines.
func (r Report) String() string {
	return fmt.Sprintf("Person count - %d\nCredit card count - %d\nAverage child age - %d",
		r.Persons, r.CreditCards, r.AverageChildAge)
}
