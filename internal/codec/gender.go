package codec

import "github.com/zarlcorp/zcensus/internal/person"

// gender labels
const (
	LabelMale   = "Male"
	LabelFemale = "Female"
)

// Gender encodes person.Gender as its label.
// Decoding is lenient: only "Male" maps to Male and every other
// string, including unknown labels, maps to Female.
type Gender struct{}

var _ Codec[person.Gender] = Gender{}

func (Gender) Encode(g person.Gender) string {
	if g == person.Male {
		return LabelMale
	}
	return LabelFemale
}

func (Gender) Decode(s string) (person.Gender, error) {
	if s == LabelMale {
		return person.Male, nil
	}
	return person.Female, nil
}
