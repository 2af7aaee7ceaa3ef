package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// setupModel asks how many persons to generate.
type setupModel struct {
	input  textinput.Model
	path   string
	errMsg string
}

// startRunMsg is sent when the user submits a person count.
type startRunMsg struct {
	count int
}

func newSetupModel(count int, path string) setupModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(count)
	ti.SetValue(strconv.Itoa(count))
	ti.Focus()
	ti.CharLimit = 9
	ti.Width = 12

	return setupModel{input: ti, path: path}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (setupModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.Type == tea.KeyCtrlC || key.Matches(msg, zstyle.KeyBack) {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m.handleSubmit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m setupModel) handleSubmit() (setupModel, tea.Cmd) {
	n, err := strconv.Atoi(m.input.Value())
	if err != nil || n < 0 {
		m.errMsg = fmt.Sprintf("%q is not a person count", m.input.Value())
		return m, nil
	}

	m.errMsg = ""
	return m, func() tea.Msg {
		return startRunMsg{count: n}
	}
}

func (m setupModel) View() string {
	indent := lipgloss.NewStyle().MarginLeft(2)
	logo := indent.Render(
		zstyle.StyledLogo(lipgloss.NewStyle().Foreground(zstyle.ZburnAccent)),
	)
	toolName := indent.Render(zstyle.MutedText.Render("zcensus"))

	s := fmt.Sprintf("\n%s\n%s\n\n  persons to generate:\n  %s\n", logo, toolName, m.input.View())
	s += "\n  " + zstyle.MutedText.Render("document: "+m.path) + "\n"

	if m.errMsg != "" {
		s += "\n  " + zstyle.StatusErr.Render(m.errMsg)
	}

	s += "\n"
	return s
}
