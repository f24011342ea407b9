package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/orchestration"
)

// candidateRow is the live state of one candidate.
type candidateRow struct {
	name     string
	expected string
	progress float64
	lastN    int
	lastMean float64
	result   *orchestration.AnalysisResult
}

// CandidatesModel lists the candidates with their progress and verdict.
type CandidatesModel struct {
	rows   []candidateRow
	cursor int
	width  int
	height int
}

// NewCandidatesModel creates the panel for the given candidates.
func NewCandidatesModel(cands []candidates.Candidate) CandidatesModel {
	rows := make([]candidateRow, len(cands))
	for i, c := range cands {
		rows[i] = candidateRow{name: c.Name, expected: c.Expected}
	}
	return CandidatesModel{rows: rows}
}

// SetSize updates dimensions.
func (c *CandidatesModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// Reset clears progress and results, keeping the selection.
func (c *CandidatesModel) Reset() {
	for i := range c.rows {
		c.rows[i] = candidateRow{name: c.rows[i].name, expected: c.rows[i].expected}
	}
}

// UpdateProgress records one measured size.
func (c *CandidatesModel) UpdateProgress(u orchestration.ProgressUpdate) {
	if u.CandidateIndex < 0 || u.CandidateIndex >= len(c.rows) {
		return
	}
	r := &c.rows[u.CandidateIndex]
	r.progress = u.Value()
	r.lastN = u.N
	r.lastMean = u.Mean
}

// SetResults attaches the final results, matched by position.
func (c *CandidatesModel) SetResults(results []orchestration.AnalysisResult) {
	for i := range results {
		if i >= len(c.rows) {
			break
		}
		res := results[i]
		c.rows[i].result = &res
		if res.Err == nil {
			c.rows[i].progress = 1
		}
	}
}

// MoveUp selects the previous candidate.
func (c *CandidatesModel) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown selects the next candidate.
func (c *CandidatesModel) MoveDown() {
	if c.cursor < len(c.rows)-1 {
		c.cursor++
	}
}

// Cursor returns the selected row index.
func (c CandidatesModel) Cursor() int { return c.cursor }

// Selected returns the name and, once available, the result of the
// selected candidate.
func (c CandidatesModel) Selected() (string, *orchestration.AnalysisResult) {
	if len(c.rows) == 0 {
		return "", nil
	}
	r := c.rows[c.cursor]
	return r.name, r.result
}

// View renders the panel.
func (c CandidatesModel) View(opts orchestration.PresentationOptions) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Candidates"))

	nameWidth := 4
	for _, r := range c.rows {
		nameWidth = max(nameWidth, len(r.name))
	}
	for i, r := range c.rows {
		b.WriteString("\n")
		marker := "  "
		name := fmt.Sprintf("%-*s", nameWidth, r.name)
		if i == c.cursor {
			marker = selectedStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		b.WriteString(marker + name + " " + c.rowStatus(r, opts))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}

func (c CandidatesModel) rowStatus(r candidateRow, opts orchestration.PresentationOptions) string {
	if r.result == nil {
		if r.progress == 0 {
			return dimStyle.Render("waiting")
		}
		bar := format.ProgressBar(r.progress, 10)
		return accentStyle.Render(bar) + dimStyle.Render(fmt.Sprintf(" n=%s %s",
			format.FormatSize(r.lastN), format.FormatMillis(r.lastMean)))
	}

	res := *r.result
	if res.Err != nil {
		return errorStyle.Render("failed")
	}
	label := complexity.Notation(res.Result.BestFit)
	conf := fmt.Sprintf(" %d%%", res.Result.Confidence)
	switch {
	case opts.LowConfidence(res.Result.Confidence) && !opts.Reveal:
		return warningStyle.Render("uncertain") + dimStyle.Render(conf)
	case opts.LowConfidence(res.Result.Confidence):
		return warningStyle.Render(label) + dimStyle.Render(conf)
	case !res.Matches():
		return errorStyle.Render(label) + dimStyle.Render(conf+" expected "+complexity.Notation(res.Expected))
	default:
		return successStyle.Render(label) + dimStyle.Render(conf)
	}
}

// truncateLines cuts every line to width cells.
func truncateLines(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if lipgloss.Width(l) > width {
			l = lipgloss.NewStyle().MaxWidth(width).Render(l)
		}
		out[i] = l
	}
	return out
}
