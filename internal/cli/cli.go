// Package cli implements zcensus's command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/zcensus/internal/census"
	"github.com/zarlcorp/zcensus/internal/codec"
	"github.com/zarlcorp/zcensus/internal/stats"
	"github.com/zarlcorp/zcensus/internal/store"
)

// DataDir returns the default data directory for zcensus.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zcensus"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zcensus"
	}
	return home + "/.local/share/zcensus"
}

// DefaultPath returns the document path used when --out is not given.
func DefaultPath() string {
	return filepath.Join(DataDir(), census.DefaultPath)
}

// ParseConfig builds a pipeline config from --count, --seed and --out.
// Without --seed every run draws a fresh seed.
func ParseConfig(args []string) (census.Config, error) {
	cfg := census.DefaultConfig()
	cfg.Path = DefaultPath()
	cfg.Seed = rand.Uint64()

	if v, ok := flagValue(args, "--count"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: --count %q: %w", census.ErrInvalidConfig, v, err)
		}
		cfg.Generator.Count = n
	}
	if v, ok := flagValue(args, "--seed"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: --seed %q: %w", census.ErrInvalidConfig, v, err)
		}
		cfg.Seed = n
	}
	if v, ok := flagValue(args, "--out"); ok {
		cfg.Path = v
	}

	return cfg, cfg.Validate()
}

// OpenStore opens a document store rooted at the directory holding path and
// returns the store together with the file name inside it.
func OpenStore(path string, create bool) (*store.Store, string, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if create {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, "", fmt.Errorf("create data dir: %w", err)
		}
	}
	fsys := zfilesystem.NewOSFileSystem(dir)
	return store.New(fsys, codec.Default()), name, nil
}

// NewRunner parses args and returns a runner over the configured document.
func NewRunner(args []string) (*census.Runner, error) {
	cfg, err := ParseConfig(args)
	if err != nil {
		return nil, err
	}

	s, name, err := OpenStore(cfg.Path, true)
	if err != nil {
		return nil, err
	}

	// the store is rooted at the document's directory
	local := cfg
	local.Path = name
	return census.NewRunner(local, s), nil
}

// CmdRun executes the full pipeline and prints the statistics.
func CmdRun(ctx context.Context, args []string, w io.Writer) error {
	r, err := NewRunner(args)
	if err != nil {
		return err
	}

	report, err := r.Run(ctx)
	if err != nil {
		return err
	}

	return printReport(w, report, hasFlag(args, "--json"))
}

// CmdGenerate generates a population and writes it without reading it back.
func CmdGenerate(ctx context.Context, args []string, w io.Writer) error {
	r, err := NewRunner(args)
	if err != nil {
		return err
	}

	for _, p := range []census.Phase{census.Generate, census.Serialize} {
		if err := r.Step(ctx, p); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "wrote %d persons\n", len(r.People()))
	return nil
}

// CmdStats loads an existing document and prints its statistics.
func CmdStats(args []string, w io.Writer) error {
	path := DefaultPath()
	if v, ok := flagValue(args, "--out"); ok {
		path = v
	}

	s, name, err := OpenStore(path, false)
	if err != nil {
		return err
	}

	people, err := s.Load(name)
	if err != nil {
		return err
	}

	return printReport(w, stats.Compute(people, time.Now()), hasFlag(args, "--json"))
}

func printReport(w io.Writer, r stats.Report, asJSON bool) error {
	if asJSON {
		return printJSON(w, r)
	}
	_, err := fmt.Fprintln(w, r.String())
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

// flagValue returns the value of flag given as "--flag value" or
// "--flag=value". Flag names match case-insensitively in both forms.
func flagValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if name, v, ok := strings.Cut(a, "="); ok && strings.EqualFold(name, flag) {
			return v, true
		}
		if strings.EqualFold(a, flag) && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}
