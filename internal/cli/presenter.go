package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigocalc/internal/complexity"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// CLIColorProvider feeds the active theme to apperrors.HandleAnalysisError.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.GetCurrentTheme().Bad }
func (CLIColorProvider) Yellow() string { return ui.GetCurrentTheme().Warn }
func (CLIColorProvider) Reset() string  { return ui.GetCurrentTheme().Reset }

// PresentComparisonTable prints one row per candidate. Columns are padded
// on their visible width so ANSI colors do not break the alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.AnalysisResult, opts orchestration.PresentationOptions, out io.Writer) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "--- Comparison Summary ---"))

	rows := [][]string{{"Candidate", "Expected", "Best fit", "Confidence", "Duration", "Status"}}
	for _, r := range results {
		rows = append(rows, []string{
			th.Paint(th.Accent, r.Name),
			expectedColumn(r),
			FormatLabel(r, opts),
			confidenceColumn(r, opts),
			format.FormatExecutionDuration(r.Duration),
			statusColumn(r, opts),
		})
	}
	writeTable(out, rows)
}

// PresentResult prints the full report of one candidate.
func (CLIResultPresenter) PresentResult(result orchestration.AnalysisResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// HandleError maps an analysis error to an exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleAnalysisError(err, duration, out, CLIColorProvider{})
}

// IsLowConfidence reports whether a label must be hidden unless revealed.
func IsLowConfidence(confidence int, opts orchestration.PresentationOptions) bool {
	return opts.LowConfidence(confidence)
}

// FormatLabel renders the best fit of r as Big-O notation, hiding it behind
// a hint when confidence is low and Reveal is off.
func FormatLabel(r orchestration.AnalysisResult, opts orchestration.PresentationOptions) string {
	th := ui.GetCurrentTheme()
	switch {
	case r.Err != nil:
		return th.Paint(th.Muted, "-")
	case !r.Result.IsDetermined():
		return th.Paint(th.Muted, r.Result.BestFit)
	case IsLowConfidence(r.Result.Confidence, opts) && !opts.Reveal:
		return th.Paint(th.Warn, "low confidence, use --reveal")
	}
	return th.Paint(th.Class(r.Result.BestFit), BigO(r.Result.BestFit))
}

// BigO returns the conventional notation of a complexity label.
func BigO(label string) string { return complexity.Notation(label) }

func expectedColumn(r orchestration.AnalysisResult) string {
	if r.Expected == "" {
		return "-"
	}
	return BigO(r.Expected)
}

func confidenceColumn(r orchestration.AnalysisResult, opts orchestration.PresentationOptions) string {
	if r.Err != nil {
		return "-"
	}
	th := ui.GetCurrentTheme()
	return th.Paint(th.Confidence(r.Result.Confidence, opts.ConfidenceThreshold), fmt.Sprintf("%d%%", r.Result.Confidence))
}

func statusColumn(r orchestration.AnalysisResult, opts orchestration.PresentationOptions) string {
	th := ui.GetCurrentTheme()
	switch {
	case r.Err != nil:
		return th.Paint(th.Bad, fmt.Sprintf("❌ Failure (%v)", r.Err))
	case r.Expected == "":
		return th.Paint(th.Good, "✅ Classified")
	case r.Matches():
		return th.Paint(th.Good, "✅ Match")
	case IsLowConfidence(r.Result.Confidence, opts):
		return th.Paint(th.Warn, "⚠ Uncertain")
	}
	return th.Paint(th.Bad, "❌ Mismatch")
}

// writeTable prints rows with columns separated by three spaces; the first
// row is underlined as a header.
func writeTable(out io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	th := ui.GetCurrentTheme()
	for r, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if r == 0 {
				cell = th.Paint(th.Bold, cell)
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+3))
			}
		}
		fmt.Fprintln(out, b.String())
	}
}
