package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/sizes"
	"github.com/agbru/bigocalc/internal/ui"
)

// PrintExecutionConfig displays the size plan, measurement settings and
// host environment before a run.
//
// Parameters:
//   - plan: The size plan.
//   - cfg: The measurement configuration in effect.
//   - out: The writer for standard output.
func PrintExecutionConfig(plan sizes.Plan, cfg bench.Config, out io.Writer) {
	th := ui.GetCurrentTheme()
	planSizes := plan.Sizes()
	labels := make([]string, len(planSizes))
	for i, n := range planSizes {
		labels[i] = format.FormatSize(n)
	}

	fmt.Fprintf(out, "%s\n", th.Paint(th.Bold, "--- Execution Configuration ---"))
	fmt.Fprintf(out, "Size plan %s: %s.\n", th.Paint(th.Accent, plan.String()), strings.Join(labels, ", "))
	fmt.Fprintf(out, "Measurement: %s%d%s batches per size, %s target per batch, %d warmup calls.\n",
		th.Accent, cfg.Iterations, th.Reset, th.Paint(th.Accent, cfg.TargetDuration.String()), cfg.WarmupRuns)
	fmt.Fprintf(out, "Environment: %s logical processors, Go %s, thread pinning %s.\n",
		th.Paint(th.Accent, fmt.Sprint(runtime.NumCPU())), th.Paint(th.Accent, runtime.Version()), onOff(cfg.PinThread))
}

// PrintCandidatePlans lists the candidates measured with their own size
// plan instead of plan. It prints nothing when every candidate uses plan.
func PrintCandidatePlans(cands []candidates.Candidate, plans []sizes.Plan, plan sizes.Plan, out io.Writer) {
	th := ui.GetCurrentTheme()
	for i, c := range cands {
		if i >= len(plans) || plans[i].String() == plan.String() {
			continue
		}
		p := plans[i].Sizes()
		fmt.Fprintf(out, "Candidate %s uses its recommended plan %s: %s to %s.\n",
			th.Paint(th.Accent, c.Name), th.Paint(th.Accent, plans[i].String()),
			format.FormatSize(p[0]), format.FormatSize(p[len(p)-1]))
	}
}

// PrintExecutionMode displays which candidates are about to be analysed.
func PrintExecutionMode(cands []candidates.Candidate, out io.Writer) {
	th := ui.GetCurrentTheme()
	var modeDesc string
	if len(cands) > 1 {
		modeDesc = fmt.Sprintf("Sequential analysis of %d candidates", len(cands))
	} else if len(cands) == 1 {
		modeDesc = fmt.Sprintf("Single analysis of %s", th.Paint(th.Accent, cands[0].Name))
	} else {
		modeDesc = "No candidate selected"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n%s\n", th.Paint(th.Bold, "--- Starting Execution ---"))
}

// DisplayCandidates lists the candidates of reg with their input mode and
// expected class.
func DisplayCandidates(reg *candidates.Registry, out io.Writer) {
	th := ui.GetCurrentTheme()
	rows := [][]string{{"Name", "Input", "Expected", "Plan", "Description"}}
	for _, c := range reg.All() {
		plan := c.Plan
		if plan == "" {
			plan = "-"
		}
		rows = append(rows, []string{th.Paint(th.Accent, c.Name), string(c.Mode), BigO(c.Expected), plan, c.Description})
	}
	writeTable(out, rows)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
