package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zarlcorp/zcensus/internal/census"
	"github.com/zarlcorp/zcensus/internal/codec"
	"github.com/zarlcorp/zcensus/internal/stats"
	"github.com/zarlcorp/zcensus/internal/store"
)

func TestDataDir(t *testing.T) {
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{
			name: "xdg set",
			xdg:  "/custom/data",
			want: "/custom/data/zcensus",
		},
		{
			name: "xdg empty falls back to home",
			xdg:  "",
			want: "/.local/share/zcensus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_DATA_HOME", tt.xdg)

			got := DataDir()
			if tt.xdg != "" {
				if got != tt.want {
					t.Errorf("DataDir() = %s, want %s", got, tt.want)
				}
			} else {
				if !strings.HasSuffix(got, tt.want) {
					t.Errorf("DataDir() = %s, want suffix %s", got, tt.want)
				}
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got, want := DefaultPath(), "/custom/data/zcensus/persons.json"; got != want {
		t.Errorf("DefaultPath() = %s, want %s", got, want)
	}
}

func TestHasFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		flag string
		want bool
	}{
		{"present", []string{"--json", "--count", "5"}, "--json", true},
		{"absent", []string{"--count", "5"}, "--json", false},
		{"empty", nil, "--json", false},
		{"case insensitive", []string{"--JSON"}, "--json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hasFlag(tt.args, tt.flag)
			if got != tt.want {
				t.Errorf("hasFlag(%v, %s) = %v, want %v", tt.args, tt.flag, got, tt.want)
			}
		})
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		flag   string
		want   string
		wantOK bool
	}{
		{"separate", []string{"--count", "5"}, "--count", "5", true},
		{"equals", []string{"--count=7"}, "--count", "7", true},
		{"separate case insensitive", []string{"--COUNT", "8"}, "--count", "8", true},
		{"equals case insensitive", []string{"--Count=9"}, "--count", "9", true},
		{"equals keeps later equals", []string{"--out=/tmp/a=b.json"}, "--out", "/tmp/a=b.json", true},
		{"equals other flag", []string{"--counter=3"}, "--count", "", false},
		{"missing value", []string{"--count"}, "--count", "", false},
		{"absent", []string{"--json"}, "--count", "", false},
		{"among others", []string{"--json", "--out", "/tmp/x.json"}, "--out", "/tmp/x.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := flagValue(tt.args, tt.flag)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("flagValue(%v, %s) = %q, %v, want %q, %v", tt.args, tt.flag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	cfg, err := ParseConfig([]string{"--count", "12", "--seed=9", "--out", "/tmp/p.json"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Generator.Count != 12 || cfg.Seed != 9 || cfg.Path != "/tmp/p.json" {
		t.Errorf("got %+v", cfg)
	}

	cfg, err = ParseConfig(nil)
	if err != nil {
		t.Fatalf("parse defaults: %v", err)
	}
	if cfg.Path != "/custom/data/zcensus/persons.json" {
		t.Errorf("default path = %s", cfg.Path)
	}
	if cfg.Generator.Count != census.DefaultConfig().Generator.Count {
		t.Errorf("default count = %d", cfg.Generator.Count)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad count", []string{"--count", "many"}},
		{"negative count", []string{"--count", "-3"}},
		{"bad seed", []string{"--seed", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig(tt.args); !errors.Is(err, census.ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestCmdRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "persons.json")
	var buf bytes.Buffer

	err := CmdRun(context.Background(), []string{"--count", "50", "--seed", "3", "--out", out}, &buf)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "Person count - 50\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("document not written: %v", err)
	}
}

func TestCmdRunJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "persons.json")
	var buf bytes.Buffer

	err := CmdRun(context.Background(), []string{"--count", "20", "--out", out, "--json"}, &buf)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var r stats.Report
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, buf.String())
	}
	if r.Persons != 20 {
		t.Errorf("persons = %d, want 20", r.Persons)
	}
}

func TestCmdGenerateThenStats(t *testing.T) {
	out := filepath.Join(t.TempDir(), "persons.json")
	var buf bytes.Buffer

	if err := CmdGenerate(context.Background(), []string{"--count", "30", "--out", out}, &buf); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if buf.String() != "wrote 30 persons\n" {
		t.Errorf("generate output = %q", buf.String())
	}

	buf.Reset()
	if err := CmdStats([]string{"--out", out}, &buf); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Person count - 30\n") {
		t.Errorf("stats output:\n%s", buf.String())
	}
}

func TestCmdStatsMissingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "absent.json")

	err := CmdStats([]string{"--out", out}, &bytes.Buffer{})
	if !errors.Is(err, store.ErrIO) {
		t.Fatalf("got %v, want store.ErrIO", err)
	}
}

func TestCmdStatsMalformedFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "persons.json")
	if err := os.WriteFile(out, []byte(`[{"gender": 1}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	err := CmdStats([]string{"--out", out}, &bytes.Buffer{})
	var fe *codec.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *codec.FormatError", err)
	}
	if fe.Field != "gender" || fe.Record != 0 {
		t.Errorf("got field %q record %d, want gender/0", fe.Field, fe.Record)
	}
}
