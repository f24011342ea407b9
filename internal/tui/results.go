package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/orchestration"
)

// ResultModel shows the selected candidate's fits and a chart of its
// samples against the best model.
type ResultModel struct {
	width  int
	height int
}

// SetSize updates dimensions.
func (r *ResultModel) SetSize(w, h int) {
	r.width = w
	r.height = h
}

// View renders the result of the named candidate. res is nil while the
// candidate has not finished.
func (r ResultModel) View(name string, res *orchestration.AnalysisResult, opts orchestration.PresentationOptions) string {
	inner := max(r.width-4, 10)
	lines := []string{titleStyle.Render(name)}

	switch {
	case res == nil:
		lines = append(lines, dimStyle.Render("Measuring..."))
	case res.Err != nil:
		lines = append(lines, errorStyle.Render("Error: "+res.Err.Error()))
	default:
		lines = append(lines, r.resultLines(*res, opts, inner)...)
	}

	return panelStyle.
		Width(max(r.width-2, 0)).
		Height(max(r.height-2, 0)).
		Render(strings.Join(truncateLines(lines, inner), "\n"))
}

func (r ResultModel) resultLines(ar orchestration.AnalysisResult, opts orchestration.PresentationOptions, inner int) []string {
	res := ar.Result
	hidden := opts.LowConfidence(res.Confidence) && !opts.Reveal

	label := complexity.Notation(res.BestFit)
	if hidden {
		label = "uncertain (press v to reveal)"
	}
	lines := []string{
		fmt.Sprintf("%s %s  %s %d%%  %s %s",
			dimStyle.Render("best"), accentStyle.Render(label),
			dimStyle.Render("confidence"), res.Confidence,
			dimStyle.Render("regime"), string(res.Regime)),
	}
	if ar.Expected != "" {
		lines = append(lines, dimStyle.Render("expected ")+complexity.Notation(ar.Expected))
	}

	for _, f := range res.Fits {
		rmse := "n/a"
		if !f.Undefined {
			rmse = fmt.Sprintf("%.4g", f.RMSE)
		}
		row := fmt.Sprintf("  %-12s rmse %s", complexity.Notation(f.Label), rmse)
		if f.Label == res.BestFit && !hidden {
			row = selectedStyle.Render(row)
		} else {
			row = dimStyle.Render(row)
		}
		lines = append(lines, row)
	}

	// Header, fits and the legend take the rest of the panel.
	chartRows := r.height - 2 - len(lines) - 1
	if chartRows < 2 || len(res.Samples) == 0 {
		return lines
	}

	points := make([]format.Point, len(res.Samples))
	for i, s := range res.Samples {
		points[i] = format.Point{X: float64(s.N), Y: s.Time}
	}
	var curve func(float64) float64
	if best, ok := res.Best(); ok && !hidden {
		curve = best.Predict
	}
	for _, l := range format.RenderScatter(points, curve, format.ChartOptions{Width: inner, Rows: chartRows}) {
		lines = append(lines, pointsStyle.Render(l))
	}
	legend := dimStyle.Render("samples")
	if curve != nil {
		legend += dimStyle.Render(" with ") + curveStyle.Render("fitted "+label)
	}
	return append(lines, legend)
}
