// Package person defines the record shapes written to and read from the
// census document.
package person

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the two-valued categorical field on persons and children.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Male {
		return "Male"
	}
	return "Female"
}

// Person is a generated adult record.
type Person struct {
	ID                int
	TransportID       uuid.UUID
	FirstName         string
	LastName          string
	SequenceID        int
	CreditCardNumbers []string
	Age               int
	Phones            []string
	BirthDate         time.Time
	Salary            float64
	IsMarried         bool
	Gender            Gender
	Children          []Child
}

// Child is a dependent nested under a Person.
type Child struct {
	ID        int
	FirstName string
	LastName  string
	BirthDate time.Time
	Gender    Gender
}

// FullName returns "first last".
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PopulationSize counts persons plus all of their children.
func PopulationSize(people []Person) int {
	n := len(people)
	for _, p := range people {
		n += len(p.Children)
	}
	return n
}

// AgeAt returns whole years between birth and now using month granularity:
// the month difference divided by twelve, truncated.
func AgeAt(birth, now time.Time) int {
	months := (now.Year()-birth.Year())*12 + int(now.Month()) - int(birth.Month())
	return months / 12
}
