package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	selectedStyle      lipgloss.Style
	successStyle       lipgloss.Style
	warningStyle       lipgloss.Style
	errorStyle         lipgloss.Style
	pointsStyle        lipgloss.Style
	curveStyle         lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	selectedStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(t.Success)
	warningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)
	pointsStyle = lipgloss.NewStyle().Foreground(t.Points)
	curveStyle = lipgloss.NewStyle().Foreground(t.Curve)

	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}
