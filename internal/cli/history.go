package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/bigocalc/internal/history"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/ui"
)

// shortIDLen is the ID prefix shown in history listings.
const shortIDLen = 8

// DisplayHistory lists stored analyses, newest first.
func DisplayHistory(records []history.Record, opts orchestration.PresentationOptions, out io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No analyses recorded.")
		return
	}
	th := ui.GetCurrentTheme()
	rows := [][]string{{"ID", "When", "Candidate", "Plan", "Best fit", "Confidence"}}
	for _, r := range records {
		id := r.ID
		if len(id) > shortIDLen {
			id = id[:shortIDLen]
		}
		ar := RecordResult(r)
		rows = append(rows, []string{
			th.Paint(th.Muted, id),
			r.CreatedAt.Local().Format(time.DateTime),
			r.Candidate,
			r.Plan,
			FormatLabel(ar, opts),
			confidenceColumn(ar, opts),
		})
	}
	writeTable(out, rows)
}

// RecordResult converts a stored record back to an analysis result, so the
// regular presenters can show it.
func RecordResult(r history.Record) orchestration.AnalysisResult {
	return orchestration.AnalysisResult{
		Name:     r.Candidate,
		Expected: r.Expected,
		Result:   r.Result,
		Duration: time.Duration(r.DurationMs * float64(time.Millisecond)),
	}
}
