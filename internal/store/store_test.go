package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/zcensus/internal/codec"
	"github.com/zarlcorp/zcensus/internal/generator"
	"github.com/zarlcorp/zcensus/internal/person"
)

func testPopulation(t *testing.T, n int) []person.Person {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }
	cfg := generator.DefaultConfig()
	cfg.Count = n
	return generator.New(1, generator.WithNow(now)).Population(cfg)
}

func openTestStore(t *testing.T) (*Store, *zfilesystem.MemFS) {
	t.Helper()
	fsys := zfilesystem.NewMemFS()
	return New(fsys, codec.Default()), fsys
}

// failingFS fails every write.
type failingFS struct {
	zfilesystem.ReadWriteFileFS
}

func (failingFS) WriteFile(string, []byte, fs.FileMode) error {
	return errors.New("disk full")
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := openTestStore(t)
	want := testPopulation(t, 50)

	if err := s.Save("persons.json", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load("persons.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	equateDates := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, equateDates, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("loaded population mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	s, fsys := openTestStore(t)

	if err := s.Save("runs/today/persons.json", testPopulation(t, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := fsys.ReadFile("runs/today/persons.json"); err != nil {
		t.Fatalf("document not written: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Save("persons.json", testPopulation(t, 10)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save("persons.json", testPopulation(t, 3)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load("persons.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d persons, want 3", len(got))
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Load("nope.json")
	if !errors.Is(err, ErrIO) {
		t.Fatalf("got %v, want ErrIO", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want fs.ErrNotExist in chain", err)
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "read" || ioErr.Path != "nope.json" {
		t.Errorf("got %#v, want read IOError for nope.json", ioErr)
	}
}

func TestLoadMalformed(t *testing.T) {
	s, fsys := openTestStore(t)
	if err := fsys.WriteFile("persons.json", []byte(`{"id": 1}`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	got, err := s.Load("persons.json")
	if got != nil {
		t.Errorf("partial result: %v", got)
	}

	var fe *codec.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *codec.FormatError", err)
	}
	if errors.Is(err, ErrIO) {
		t.Error("format failure should not be an i/o error")
	}
}

func TestSaveWriteFailure(t *testing.T) {
	s := New(failingFS{zfilesystem.NewMemFS()}, codec.Default())

	err := s.Save("persons.json", testPopulation(t, 1))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("got %v, want ErrIO", err)
	}
}

func TestSaveOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := New(zfilesystem.NewOSFileSystem(dir), codec.Default())

	if err := s.Save("persons.json", testPopulation(t, 5)); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "persons.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("document is not a JSON list of objects: %v", err)
	}
	if len(raw) != 5 {
		t.Fatalf("got %d records, want 5", len(raw))
	}
	if _, ok := raw[0]["birthDate"].(string); !ok {
		t.Errorf("birthDate should be a string, got %T", raw[0]["birthDate"])
	}
	if _, ok := raw[0]["creditCardNumbers"].(string); !ok {
		t.Errorf("creditCardNumbers should be a delimited string, got %T", raw[0]["creditCardNumbers"])
	}
}
