package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zcensus/internal/census"
)

// pipelineModel shows progress through the census phases.
type pipelineModel struct {
	spinner spinner.Model
	phase   census.Phase
	count   int
	err     error
}

// phaseDoneMsg reports the outcome of one phase.
type phaseDoneMsg struct {
	phase census.Phase
	err   error
}

var phaseLabels = map[census.Phase]string{
	census.Generate:    "generate persons",
	census.Serialize:   "write document",
	census.Clear:       "clear memory",
	census.Deserialize: "read document",
	census.Statistics:  "compute statistics",
}

func newPipelineModel(count int) pipelineModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(zstyle.ZburnAccent)

	return pipelineModel{spinner: s, phase: census.Generate, count: count}
}

func (m pipelineModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m pipelineModel) Update(msg tea.Msg) (pipelineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, zstyle.KeyQuit) {
			return m, tea.Quit
		}
		if m.failed() && key.Matches(msg, zstyle.KeyEnter) {
			return m, func() tea.Msg { return navigateMsg{view: viewSetup} }
		}

	case phaseDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.phase = msg.phase + 1
		return m, nil

	case spinner.TickMsg:
		if m.failed() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m pipelineModel) failed() bool {
	return m.err != nil
}

func (m pipelineModel) View() string {
	title := zstyle.Title.Render(fmt.Sprintf("census of %d persons", m.count))
	s := fmt.Sprintf("\n  %s\n\n", title)

	for _, p := range census.Phases {
		var mark string
		switch {
		case p < m.phase:
			mark = zstyle.StatusOK.Render("✓")
		case p == m.phase && m.failed():
			mark = zstyle.StatusErr.Render("✗")
		case p == m.phase:
			mark = m.spinner.View()
		default:
			mark = zstyle.MutedText.Render("·")
		}
		s += fmt.Sprintf("  %s %s\n", mark, phaseLabels[p])
	}

	if m.failed() {
		s += "\n  " + zstyle.StatusErr.Render(m.err.Error()) + "\n"
	}

	return s
}
