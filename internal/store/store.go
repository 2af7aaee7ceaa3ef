// Package store persists the census document as a single flat file on a
// filesystem. The whole document is encoded in memory and handed to the
// filesystem in one call, so no handle outlives Save or Load.
package store

import (
	"errors"
	"fmt"
	"path"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/zcensus/internal/codec"
	"github.com/zarlcorp/zcensus/internal/document"
	"github.com/zarlcorp/zcensus/internal/person"
)

// ErrIO matches every *IOError via errors.Is.
var ErrIO = errors.New("document i/o failed")

// IOError reports a document file that could not be created, written,
// opened, or read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// Store reads and writes census documents.
type Store struct {
	fs  zfilesystem.ReadWriteFileFS
	reg *codec.Registry
}

// New creates a store over fsys using reg for field codecs.
func New(fsys zfilesystem.ReadWriteFileFS, reg *codec.Registry) *Store {
	return &Store{fs: fsys, reg: reg}
}

// Save encodes people and writes them to name, creating parent directories.
func (s *Store) Save(name string, people []person.Person) error {
	data, err := document.Marshal(people, s.reg)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	if dir := path.Dir(name); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o700); err != nil {
			return &IOError{Op: "create dir", Path: dir, Err: err}
		}
	}

	if err := s.fs.WriteFile(name, data, 0o600); err != nil {
		return &IOError{Op: "write", Path: name, Err: err}
	}

	return nil
}

// Load reads and decodes the document at name. A malformed document returns
// a *codec.FormatError and no records.
func (s *Store) Load(name string) ([]person.Person, error) {
	data, err := s.fs.ReadFile(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}

	people, err := document.Unmarshal[person.Person](data, s.reg)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", name, err)
	}

	return people, nil
}
