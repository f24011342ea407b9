package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/sysmon"
)

// historyCapacity is the default number of CPU and memory samples kept.
const historyCapacity = 32

// MetricsModel displays runtime memory statistics and system load.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	cpuHistory   *RingBuffer
	memHistory   *RingBuffer
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpuHistory: NewRingBuffer(historyCapacity),
		memHistory: NewRingBuffer(historyCapacity),
	}
}

// SetSize updates dimensions and fits the history to the sparkline width.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if capacity := w - 20; capacity > 0 {
		m.cpuHistory.Resize(capacity)
		m.memHistory.Resize(capacity)
	}
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends one system load sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpuHistory.Push(msg.CPUPercent)
	m.memHistory.Push(msg.MemPercent)
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	pipe := dimStyle.Render(" | ")
	lines := []string{
		titleStyle.Render("Runtime"),
		fmt.Sprintf("%s %s%s%s %s%s%s %d",
			dimStyle.Render("Heap:"), accentStyle.Render(formatBytes(m.alloc)+" / "+formatBytes(m.heapSys)),
			pipe,
			dimStyle.Render("GC:"), accentStyle.Render(fmt.Sprintf("%d (%s)", m.numGC, format.FormatMillis(float64(m.pauseTotalNs)/1e6))),
			pipe,
			dimStyle.Render("Goroutines:"), m.numGoroutine),
		sparkRow("CPU", m.cpuHistory),
		sparkRow("Mem", m.memHistory),
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

func sparkRow(label string, hist *RingBuffer) string {
	last := "  -  "
	if hist.Len() > 0 {
		last = fmt.Sprintf("%4.1f%%", hist.Last())
	}
	row := fmt.Sprintf("%s %s ", dimStyle.Render(fmt.Sprintf("%-4s", label)), accentStyle.Render(last))
	style := successStyle
	if hist.Len() > 0 && hist.Last() >= sysmon.HighLoadPercent {
		style = warningStyle
	}
	return row + style.Render(format.RenderSparkline(hist.Slice()))
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// padRight pads s to width visible cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
