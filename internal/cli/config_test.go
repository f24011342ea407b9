package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/sizes"
)

func mustPlan(t *testing.T, spec string) sizes.Plan {
	t.Helper()
	p, err := sizes.Parse(spec)
	if err != nil {
		t.Fatalf("Parse(%q): %v", spec, err)
	}
	return p
}

func TestPrintCandidatePlans(t *testing.T) {
	noColor(t)

	run := mustPlan(t, "standard")
	cands := []candidates.Candidate{{Name: "sum"}, {Name: "sort"}}
	plans := []sizes.Plan{run, mustPlan(t, "double:1000*9")}

	var buf bytes.Buffer
	PrintCandidatePlans(cands, plans, run, &buf)
	out := buf.String()
	if !strings.Contains(out, "sort uses its recommended plan double:1000*9") {
		t.Errorf("missing sort plan line: %q", out)
	}
	if strings.Contains(out, "sum") {
		t.Errorf("candidate on the run plan should not be listed: %q", out)
	}

	buf.Reset()
	PrintCandidatePlans(cands, []sizes.Plan{run, run}, run, &buf)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDisplayCandidates_ShowsPlans(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	DisplayCandidates(candidates.NewDefaultRegistry(), &buf)
	out := buf.String()
	for _, want := range []string{"Plan", "double:1000*9", "pow10:1-6"} {
		if !strings.Contains(out, want) {
			t.Errorf("candidate list should contain %q:\n%s", want, out)
		}
	}
}
