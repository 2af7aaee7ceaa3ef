// Package tui implements the root Bubble Tea model for zcensus.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zcensus/internal/census"
	"github.com/zarlcorp/zcensus/internal/store"
)

type viewID int

const (
	viewSetup viewID = iota
	viewPipeline
	viewReport
)

// navigateMsg tells the root model to switch views.
type navigateMsg struct {
	view viewID
}

// Model is the root TUI model.
type Model struct {
	ctx      context.Context
	version  string
	location string
	cfg      census.Config
	store    *store.Store
	runner   *census.Runner

	active   viewID
	setup    setupModel
	pipeline pipelineModel
	report   reportModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model. cfg.Path is relative to st; location is
// the document path shown to the user.
func New(ctx context.Context, version, location string, cfg census.Config, st *store.Store) Model {
	return Model{
		ctx:      ctx,
		version:  version,
		location: location,
		cfg:      cfg,
		store:    st,
		active:   viewSetup,
		setup:    newSetupModel(cfg.Generator.Count, location),
	}
}

func (m Model) Init() tea.Cmd {
	return m.setup.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case navigateMsg:
		return m.navigate(msg.view)

	case startRunMsg:
		return m.startRun(msg.count)

	case phaseDoneMsg:
		return m.handlePhaseDone(msg)
	}

	return m.updateActive(msg)
}

func (m Model) navigate(id viewID) (tea.Model, tea.Cmd) {
	m.active = id
	if id == viewSetup {
		m.runner = nil
		m.setup = newSetupModel(m.cfg.Generator.Count, m.location)
		return m, m.setup.Init()
	}
	return m, nil
}

func (m Model) startRun(count int) (tea.Model, tea.Cmd) {
	cfg := m.cfg
	cfg.Generator.Count = count
	if err := cfg.Validate(); err != nil {
		m.setup.errMsg = err.Error()
		return m, nil
	}
	m.cfg = cfg

	// the terminal belongs to the UI; run logs would corrupt it
	quiet := slog.New(slog.DiscardHandler)
	m.runner = census.NewRunner(cfg, m.store, census.WithLogger(quiet))

	m.pipeline = newPipelineModel(count)
	m.active = viewPipeline
	return m, tea.Batch(m.pipeline.Init(), m.runPhase(census.Generate))
}

func (m Model) handlePhaseDone(msg phaseDoneMsg) (tea.Model, tea.Cmd) {
	m.pipeline, _ = m.pipeline.Update(msg)
	if msg.err != nil {
		return m, nil
	}

	if msg.phase == census.Statistics {
		m.report = newReportModel(m.runner.Report(), m.location)
		m.active = viewReport
		return m, nil
	}

	return m, m.runPhase(msg.phase + 1)
}

// runPhase executes one pipeline phase off the UI loop.
func (m Model) runPhase(p census.Phase) tea.Cmd {
	r, ctx := m.runner, m.ctx
	return func() tea.Msg {
		return phaseDoneMsg{phase: p, err: r.Step(ctx, p)}
	}
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case viewSetup:
		m.setup, cmd = m.setup.Update(msg)
	case viewPipeline:
		m.pipeline, cmd = m.pipeline.Update(msg)
	case viewReport:
		m.report, cmd = m.report.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	// setup includes the logo, render directly
	if m.active == viewSetup {
		return m.setup.View()
	}

	var content string
	switch m.active {
	case viewPipeline:
		content = m.pipeline.View()
	case viewReport:
		content = m.report.View()
	}

	header := zstyle.RenderHeader("zcensus", viewTitle(m.active), zstyle.ZburnAccent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(m.helpFor())

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewPipeline:
		return "Running"
	case viewReport:
		return "Report"
	}
	return ""
}

// helpFor returns keybinding pairs for the active view's footer.
func (m Model) helpFor() []zstyle.HelpPair {
	switch {
	case m.active == viewReport:
		return []zstyle.HelpPair{
			{Key: "r", Desc: "new run"},
			{Key: "q", Desc: "quit"},
		}
	case m.active == viewPipeline && m.pipeline.failed():
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	}
	return []zstyle.HelpPair{
		{Key: "q", Desc: "quit"},
	}
}
