package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zcensus/internal/cli"
	"github.com/zarlcorp/zcensus/internal/tui"
	"golang.org/x/term"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zcensus"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	var err error
	switch {
	case len(os.Args) > 1:
		err = runCLI(ctx, os.Args[1], os.Args[2:])
	case term.IsTerminal(int(os.Stdout.Fd())):
		err = runTUI(ctx)
	default:
		err = cli.CmdRun(ctx, nil, os.Stdout)
	}

	if err != nil {
		slog.Error("zcensus", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "version":
		fmt.Printf("zcensus %s\n", version)
		return nil
	case "run":
		return cli.CmdRun(ctx, args, os.Stdout)
	case "generate":
		return cli.CmdGenerate(ctx, args, os.Stdout)
	case "stats":
		return cli.CmdStats(args, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runTUI(ctx context.Context) error {
	cfg, err := cli.ParseConfig(nil)
	if err != nil {
		return err
	}

	st, name, err := cli.OpenStore(cfg.Path, true)
	if err != nil {
		return err
	}

	location := cfg.Path
	cfg.Path = name

	m := tui.New(ctx, version, location, cfg, st)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
