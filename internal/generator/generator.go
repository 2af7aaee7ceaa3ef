// Package generator produces synthetic census populations.
// All randomness comes from a seeded ChaCha8 source owned by the Generator,
// so the same seed always yields the same population.
package generator

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zarlcorp/zcensus/internal/person"
)

// character classes for generated fields
const (
	letterChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
)

// name lengths, inclusive
const (
	minNameLen = 3
	maxNameLen = 10
)

// adulthood is the minimum gap in years between a parent's and a child's
// birth year.
const adulthood = 18

const maxSalary = 10000

// Generator produces random persons from a seeded source.
type Generator struct {
	src        *rand.ChaCha8
	rng        *rand.Rand
	now        func() time.Time
	onProgress func(done, total int)
}

// Option configures a Generator.
type Option func(*Generator)

// WithNow sets the clock used to derive ages.
func WithNow(fn func() time.Time) Option {
	return func(g *Generator) { g.now = fn }
}

// WithProgress registers a callback invoked after each person is generated.
func WithProgress(fn func(done, total int)) Option {
	return func(g *Generator) { g.onProgress = fn }
}

// New creates a generator seeded with seed.
func New(seed uint64, opts ...Option) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	src := rand.NewChaCha8(key)

	g := &Generator{
		src: src,
		rng: rand.New(src),
		now: time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Population generates cfg.Count persons. Children take the ids directly
// after their parent, so ids are unique across persons and children.
func (g *Generator) Population(cfg Config) []person.Person {
	people := make([]person.Person, 0, cfg.Count)
	next := 0
	for i := 0; i < cfg.Count; i++ {
		p := g.Person(next, cfg)
		people = append(people, p)
		next += 1 + len(p.Children)

		if g.onProgress != nil {
			g.onProgress(i+1, cfg.Count)
		}
	}
	return people
}

// Person generates a single person with the given id.
func (g *Generator) Person(id int, cfg Config) person.Person {
	p := person.Person{
		ID:                id,
		TransportID:       g.transportID(),
		FirstName:         g.name(),
		LastName:          g.name(),
		SequenceID:        id,
		CreditCardNumbers: g.creditCards(cfg.CreditCards),
		Phones:            g.phones(cfg.Phones),
		BirthDate:         g.birthDate(cfg.MinYear, cfg.MaxYear),
		Salary:            g.salary(),
		IsMarried:         g.rng.IntN(2) == 1,
		Gender:            g.gender(),
	}
	p.Age = person.AgeAt(p.BirthDate, g.now())
	p.Children = g.children(p, cfg)
	return p
}

func (g *Generator) children(parent person.Person, cfg Config) []person.Child {
	n := g.between(cfg.Children)
	kids := make([]person.Child, n)
	for i := range kids {
		kids[i] = person.Child{
			ID:        parent.ID + i + 1,
			FirstName: g.name(),
			LastName:  g.name(),
			BirthDate: g.birthDate(parent.BirthDate.Year()+adulthood, cfg.MaxYear+adulthood),
			Gender:    g.gender(),
		}
	}
	return kids
}

// transportID draws a version 4 UUID from the seeded source.
func (g *Generator) transportID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		// ChaCha8 reads never fail
		panic("generator: " + err.Error())
	}
	return id
}

func (g *Generator) name() string {
	return g.chars(letterChars, minNameLen+g.rng.IntN(maxNameLen-minNameLen+1))
}

func (g *Generator) creditCards(r Range) []string {
	cards := make([]string, g.between(r))
	for i := range cards {
		cards[i] = g.chars(digitChars, person.CreditCardDigits)
	}
	return cards
}

func (g *Generator) phones(r Range) []string {
	phones := make([]string, g.between(r))
	for i := range phones {
		n := person.PhoneMin + g.rng.Int64N(person.PhoneMax-person.PhoneMin)
		phones[i] = strconv.FormatInt(n, 10)
	}
	return phones
}

// birthDate returns a UTC midnight date with year in [minYear, maxYear).
func (g *Generator) birthDate(minYear, maxYear int) time.Time {
	year := minYear
	if maxYear > minYear {
		year += g.rng.IntN(maxYear - minYear)
	}
	month := time.Month(1 + g.rng.IntN(12))
	day := 1 + g.rng.IntN(daysIn(year, month))
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// salary is in [0, 10000] with one fractional digit.
func (g *Generator) salary() float64 {
	return math.RoundToEven(g.rng.Float64()*maxSalary*10) / 10
}

func (g *Generator) gender() person.Gender {
	if g.rng.IntN(2) == 1 {
		return person.Male
	}
	return person.Female
}

// between returns a random int in [r.Min, r.Max].
func (g *Generator) between(r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.rng.IntN(r.Max-r.Min+1)
}

func (g *Generator) chars(set string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = set[g.rng.IntN(len(set))]
	}
	return string(buf)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
