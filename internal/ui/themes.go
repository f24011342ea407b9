package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/complexity"
)

// Theme is a set of ANSI escape codes for terminal output.
type Theme struct {
	Name string
	// Accent highlights headings and best-fit labels.
	Accent string
	// Muted is used for secondary columns such as rank and intercept.
	Muted string
	// Good, Warn and Bad grade confidence and status lines.
	Good string
	Warn string
	Bad  string
	Bold string
	// Classes colors each complexity label, from constant to quadratic.
	Classes [5]string
	Reset   string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:   "dark",
		Accent: "\033[38;5;39m",
		Muted:  "\033[38;5;245m",
		Good:   "\033[38;5;82m",
		Warn:   "\033[38;5;220m",
		Bad:    "\033[38;5;196m",
		Bold:   "\033[1m",
		Classes: [5]string{
			"\033[38;5;82m",  // constant
			"\033[38;5;43m",  // logarithmic
			"\033[38;5;39m",  // linear
			"\033[38;5;214m", // linearithmic
			"\033[38;5;196m", // quadratic
		},
		Reset: "\033[0m",
	}

	// LightTheme uses darker shades readable on light backgrounds.
	LightTheme = Theme{
		Name:   "light",
		Accent: "\033[38;5;27m",
		Muted:  "\033[38;5;240m",
		Good:   "\033[38;5;28m",
		Warn:   "\033[38;5;130m",
		Bad:    "\033[38;5;124m",
		Bold:   "\033[1m",
		Classes: [5]string{
			"\033[38;5;28m",
			"\033[38;5;30m",
			"\033[38;5;27m",
			"\033[38;5;130m",
			"\033[38;5;124m",
		},
		Reset: "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	// Points colors measured samples in charts; Curve the fitted model.
	Points lipgloss.TerminalColor
	Curve  lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default dashboard palette.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#3A7BD5"),
		Accent:  lipgloss.Color("#4FC3F7"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
		Points:  lipgloss.Color("#E0E0E0"),
		Curve:   lipgloss.Color("#FF8C00"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Points:  lipgloss.NoColor{},
		Curve:   lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name ("dark", "light" or "none").
// Unknown names select the dark theme.
func SetTheme(name string) {
	switch name {
	case LightTheme.Name:
		SetCurrentTheme(LightTheme)
	case NoColorTheme.Name:
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme selects the theme at startup. Colors are disabled when noColor
// is true or NO_COLOR is present in the environment (https://no-color.org/);
// otherwise BIGOCALC_THEME may name a theme.
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv("BIGOCALC_THEME"))
}

// Paint wraps s in code and the theme reset. An empty code returns s as is.
func (t Theme) Paint(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + t.Reset
}

// Class returns the color of a complexity label, or Muted for labels
// outside the default catalog.
func (t Theme) Class(label string) string {
	m, ok := complexity.DefaultCatalog().Lookup(label)
	if !ok || m.Rank < 1 || m.Rank > len(t.Classes) {
		return t.Muted
	}
	return t.Classes[m.Rank-1]
}

// Confidence grades a confidence score: Good above threshold, Warn within
// 20 points below it, Bad otherwise.
func (t Theme) Confidence(confidence, threshold int) string {
	switch {
	case confidence > threshold:
		return t.Good
	case confidence > threshold-20:
		return t.Warn
	default:
		return t.Bad
	}
}
