package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zcensus/internal/stats"
)

// reportModel displays the statistics of a finished run.
type reportModel struct {
	report stats.Report
	path   string
}

func newReportModel(r stats.Report, path string) reportModel {
	return reportModel{report: r, path: path}
}

func (m reportModel) Update(msg tea.Msg) (reportModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, zstyle.KeyQuit) {
			return m, tea.Quit
		}
		if key.Matches(msg, zstyle.KeyEnter) || msg.String() == "r" {
			return m, func() tea.Msg { return navigateMsg{view: viewSetup} }
		}
	}
	return m, nil
}

func (m reportModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(zstyle.ZburnAccent).Bold(true)

	rows := []struct {
		label string
		value int
	}{
		{"persons", m.report.Persons},
		{"credit cards", m.report.CreditCards},
		{"children", m.report.Children},
		{"average child age", m.report.AverageChildAge},
	}

	s := fmt.Sprintf("\n  %s\n\n", zstyle.Title.Render("statistics"))
	for _, r := range rows {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-18s", r.label))
		s += fmt.Sprintf("  %s %s\n", label, accentStyle.Render(fmt.Sprint(r.value)))
	}

	s += "\n  " + zstyle.MutedText.Render("document: "+m.path) + "\n"
	return s
}
