// Package census runs the generate, serialize, clear, deserialize and
// statistics phases over a single document file.
package census

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zarlcorp/zcensus/internal/generator"
	"github.com/zarlcorp/zcensus/internal/person"
	"github.com/zarlcorp/zcensus/internal/stats"
	"github.com/zarlcorp/zcensus/internal/store"
	"golang.org/x/time/rate"
)

// DefaultPath is the document file name used when none is configured.
const DefaultPath = "persons.json"

// progressInterval bounds how often generation progress is logged.
const progressInterval = 250 * time.Millisecond

// ErrInvalidConfig is returned when a Config cannot drive a run.
var ErrInvalidConfig = errors.New("invalid census config")

// Config describes one pipeline run.
type Config struct {
	Generator generator.Config
	Seed      uint64
	Path      string
}

// DefaultConfig returns a config for a full-size run written to DefaultPath.
func DefaultConfig() Config {
	return Config{
		Generator: generator.DefaultConfig(),
		Path:      DefaultPath,
	}
}

// Validate reports whether c can drive a run.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: empty document path", ErrInvalidConfig)
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Phase is one step of the pipeline.
type Phase int

const (
	Generate Phase = iota
	Serialize
	Clear
	Deserialize
	Statistics
)

// Phases lists every phase in execution order.
var Phases = []Phase{Generate, Serialize, Clear, Deserialize, Statistics}

func (p Phase) String() string {
	switch p {
	case Generate:
		return "generate"
	case Serialize:
		return "serialize"
	case Clear:
		return "clear"
	case Deserialize:
		return "deserialize"
	case Statistics:
		return "statistics"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Runner holds the in-memory population between phases.
type Runner struct {
	cfg      Config
	store    *store.Store
	log      *slog.Logger
	now      func() time.Time
	progress rate.Sometimes

	people []person.Person
	report stats.Report
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithNow sets the clock used for ages and statistics.
func WithNow(fn func() time.Time) Option {
	return func(r *Runner) { r.now = fn }
}

// NewRunner creates a runner writing through st.
func NewRunner(cfg Config, st *store.Store, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		store:    st,
		log:      slog.Default(),
		now:      time.Now,
		progress: rate.Sometimes{Interval: progressInterval},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config { return r.cfg }

// People returns the population currently held in memory.
func (r *Runner) People() []person.Person { return r.people }

// Report returns the result of the last Statistics phase.
func (r *Runner) Report() stats.Report { return r.report }

// Run validates the config and executes every phase in order.
func (r *Runner) Run(ctx context.Context) (stats.Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return stats.Report{}, err
	}
	for _, p := range Phases {
		if err := r.Step(ctx, p); err != nil {
			return stats.Report{}, err
		}
	}
	return r.report, nil
}

// Step executes a single phase.
func (r *Runner) Step(ctx context.Context, p Phase) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	switch p {
	case Generate:
		r.Generate()
		return nil
	case Serialize:
		return r.Serialize()
	case Clear:
		r.Clear()
		return nil
	case Deserialize:
		return r.Deserialize()
	case Statistics:
		r.Statistics()
		return nil
	default:
		return fmt.Errorf("unknown phase %d", int(p))
	}
}

// Generate replaces the in-memory population with a freshly generated one.
func (r *Runner) Generate() {
	r.log.Info("start generation", "count", r.cfg.Generator.Count, "seed", r.cfg.Seed)

	g := generator.New(r.cfg.Seed,
		generator.WithNow(r.now),
		generator.WithProgress(r.logProgress),
	)
	r.people = g.Population(r.cfg.Generator)

	r.log.Info("generation completed",
		"persons", len(r.people),
		"population", person.PopulationSize(r.people),
	)
}

func (r *Runner) logProgress(done, total int) {
	r.progress.Do(func() {
		r.log.Info("generating", "done", done, "total", total)
	})
}

// Serialize validates the in-memory population and writes it to the
// configured path. Nothing is written when validation fails.
func (r *Runner) Serialize() error {
	if err := person.ValidatePopulation(r.people); err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	if err := r.store.Save(r.cfg.Path, r.people); err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	r.log.Info("document written", "path", r.cfg.Path, "persons", len(r.people))
	return nil
}

// Clear drops the in-memory population.
func (r *Runner) Clear() {
	r.people = nil
	r.log.Info("population cleared")
}

// Deserialize reloads the population from the configured path.
func (r *Runner) Deserialize() error {
	people, err := r.store.Load(r.cfg.Path)
	if err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}
	r.people = people
	r.log.Info("document read", "path", r.cfg.Path, "persons", len(people))
	return nil
}

// Statistics computes the report over the in-memory population.
func (r *Runner) Statistics() stats.Report {
	r.report = stats.Compute(r.people, r.now())
	r.log.Info("statistics computed",
		"persons", r.report.Persons,
		"credit_cards", r.report.CreditCards,
		"average_child_age", r.report.AverageChildAge,
	)
	return r.report
}
