package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/format"
)

// HeaderModel renders the top bar: title, size plan and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	plan      string
	progress  float64
	eta       time.Duration
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, plan string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		plan:      plan,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.progress = 0
	h.eta = 0
}

// SetProgress records the overall completion and its ETA.
func (h *HeaderModel) SetProgress(progress float64, eta time.Duration) {
	h.progress = progress
	h.eta = eta
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen duration.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "bigocalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText) +
		pipe + dimStyle.Render("plan ") + accentStyle.Render(h.plan) +
		pipe + accentStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))
	if h.endTime.IsZero() {
		left += pipe + dimStyle.Render(format.FormatProgressBarWithETA(h.progress, h.eta, 20))
	}

	gap := max(h.width-2-lipgloss.Width(left), 0)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap))
}
