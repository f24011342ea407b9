package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/ui"
)

// Chart dimensions in terminal cells.
const (
	ChartWidth = 48
	ChartRows  = 8
)

// DisplayResult prints the classification of one candidate: headline,
// model fits, samples with the best model's prediction and, when requested,
// a chart and GC statistics.
func DisplayResult(r orchestration.AnalysisResult, opts orchestration.PresentationOptions, out io.Writer) {
	th := ui.GetCurrentTheme()
	res := r.Result

	fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "--- "+r.Name+" ---"))
	fmt.Fprintf(out, "Best fit:    %s\n", FormatLabel(r, opts))
	fmt.Fprintf(out, "Confidence:  %s (%s regime)\n", confidenceColumn(r, opts), res.Regime)
	if r.Expected != "" {
		fmt.Fprintf(out, "Expected:    %s  %s\n", BigO(r.Expected), statusColumn(r, opts))
	}
	fmt.Fprintf(out, "Duration:    %s\n", format.FormatExecutionDuration(r.Duration))
	if res.Dropped > 0 {
		fmt.Fprintf(out, "%s\n", th.Paint(th.Warn, fmt.Sprintf("Dropped %d invalid sample(s).", res.Dropped)))
	}
	if len(res.Fits) == 0 {
		return
	}

	showBest := res.IsDetermined() && (opts.Reveal || !IsLowConfidence(res.Confidence, opts))
	best, hasBest := res.Best()
	hasBest = hasBest && showBest

	fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "Model fits"))
	rows := [][]string{{"Model", "Rank", "RMSE", "Slope", "Intercept (ms)"}}
	for _, f := range res.Fits {
		label := f.Label
		if hasBest && f.Label == best.Label {
			label = th.Paint(th.Class(f.Label), label+" *")
		}
		if f.Undefined {
			rows = append(rows, []string{label, strconv.Itoa(f.Rank), th.Paint(th.Muted, "undefined"), "-", "-"})
			continue
		}
		rows = append(rows, []string{
			label,
			strconv.Itoa(f.Rank),
			format.FormatMillis(f.RMSE),
			fmt.Sprintf("%.4g", f.Slope),
			fmt.Sprintf("%.4g", f.Intercept),
		})
	}
	writeTable(out, rows)

	fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "Samples"))
	header := []string{"n", "time/call"}
	if hasBest {
		header = append(header, "predicted")
	}
	rows = [][]string{header}
	for _, s := range res.Samples {
		row := []string{format.FormatSize(s.N), format.FormatMillis(s.Time)}
		if hasBest {
			row = append(row, th.Paint(th.Muted, format.FormatMillis(best.Predict(float64(s.N)))))
		}
		rows = append(rows, row)
	}
	writeTable(out, rows)

	if opts.Chart {
		var curve func(float64) float64
		if hasBest {
			curve = best.Predict
		}
		DisplayChart(res.Samples, curve, out)
	}

	if opts.Verbose {
		fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "Memory during measurement"))
		fmt.Fprintf(out, "  GC cycles:       %d\n", r.Memory.GCCycles)
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(r.Memory.PauseTotalNs)/1e6)
		fmt.Fprintf(out, "  Heap growth:     %s bytes\n", format.FormatNumberString(strconv.FormatInt(r.Memory.HeapGrowth, 10)))
	}
}

// DisplayChart draws the samples as dots and, when curve is non-nil, the
// fitted model as a line. The x axis is logarithmic.
func DisplayChart(samples []complexity.Sample, curve func(float64) float64, out io.Writer) {
	points := make([]format.Point, len(samples))
	maxY := 0.0
	for i, s := range samples {
		points[i] = format.Point{X: float64(s.N), Y: s.Time}
		maxY = max(maxY, s.Time)
	}
	lines := format.RenderScatter(points, curve, format.ChartOptions{Width: ChartWidth, Rows: ChartRows, LogX: true})
	if len(lines) == 0 {
		return
	}
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "Time per call vs n"))
	for i, line := range lines {
		axis := "          "
		switch i {
		case 0:
			axis = fmt.Sprintf("%10s", format.FormatMillis(maxY))
		case len(lines) - 1:
			axis = fmt.Sprintf("%10s", "0")
		}
		fmt.Fprintf(out, "%s ┤%s\n", th.Paint(th.Muted, axis), line)
	}
	first, last := samples[0].N, samples[len(samples)-1].N
	fmt.Fprintf(out, "%s  %s%*s\n", "          ", format.FormatSize(first), ChartWidth-len(format.FormatSize(first)), format.FormatSize(last))
}
