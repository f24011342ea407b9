package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/cli"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/logging"
)

// testRegistry holds a fast candidate without expectation, one that always
// fails and one carrying its own size plan.
func testRegistry(t *testing.T) *candidates.Registry {
	t.Helper()
	reg := candidates.NewRegistry()
	for _, c := range []candidates.Candidate{
		{
			Name:        "noop",
			Description: "Returns its input.",
			Mode:        bench.ModeScalar,
			Fn:          func(input any) (any, error) { return input, nil },
		},
		{
			Name:        "broken",
			Description: "Always fails.",
			Mode:        bench.ModeScalar,
			Fn:          func(any) (any, error) { return nil, errors.New("broken candidate") },
		},
		{
			Name:        "planned",
			Description: "Returns its input over its own sizes.",
			Mode:        bench.ModeScalar,
			Plan:        "10,20,40",
			Fn:          func(input any) (any, error) { return input, nil },
		},
	} {
		if err := reg.Register(c); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var out, errOut bytes.Buffer
	a := New(append([]string{"bigocalc"}, args...), &errOut,
		WithRegistry(testRegistry(t)), WithLogger(logging.Nop()))
	code := a.Run(context.Background(), &out)
	return code, out.String(), errOut.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := run(t, "--version")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "bigocalc") {
		t.Errorf("--version: code %d, out %q", code, out)
	}

	code, out, _ = run(t, "version")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "go version") {
		t.Errorf("version: code %d, out %q", code, out)
	}
}

func TestRun_List(t *testing.T) {
	code, out, _ := run(t, "list")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	for _, want := range []string{"noop", "broken", "scalar"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"bad size plan", []string{"--sizes", "10,5"}},
		{"bad mode", []string{"--mode", "matrix"}},
		{"unknown candidate", []string{"--candidates", "missing", "--quiet"}},
		{"quiet with tui", []string{"--quiet", "--tui"}},
		{"missing tuning file", []string{"--tuning", "/nonexistent/tuning.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			if code != apperrors.ExitErrorConfig {
				t.Errorf("code = %d, want %d (stderr %q)", code, apperrors.ExitErrorConfig, errOut)
			}
		})
	}
}

func TestRun_QuietAnalysis(t *testing.T) {
	code, out, _ := run(t, "--candidates", "noop", "--sizes", "10,20,40", "--iterations", "1", "--quiet")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, out %q", code, out)
	}
	if !strings.HasPrefix(out, "noop\t") {
		t.Errorf("quiet output = %q", out)
	}
}

func TestRun_AllCandidatesFail(t *testing.T) {
	code, out, _ := run(t, "--candidates", "broken", "--sizes", "10,20", "--quiet")
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(out, "broken\terror") {
		t.Errorf("quiet output = %q", out)
	}
}

func TestRun_JSONAndOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	code, out, _ := run(t, "analyze", "--candidates", "noop,broken", "--sizes", "10,20,40", "--iterations", "1", "--json", "--output", path)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, out %q", code, out)
	}

	var report cli.JSONReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, out)
	}
	if len(report.Results) != 2 || report.Results[0].Candidate != "noop" || report.Results[1].Error == "" {
		t.Errorf("results = %+v", report.Results)
	}
	if report.SizePlan != "10,20,40" {
		t.Errorf("sizePlan = %q", report.SizePlan)
	}
}

func TestRun_CandidatePlans(t *testing.T) {
	t.Setenv("BIGOCALC_SIZES", "")
	t.Setenv("BIGOCALC_CANDIDATE_PLANS", "")

	tests := []struct {
		name     string
		args     []string
		wantPlan string
	}{
		{"verify uses the candidate plan", []string{"verify"}, "10,20,40"},
		{"explicit sizes win", []string{"verify", "--sizes", "10,30,90"}, ""},
		{"analyze keeps the run plan", []string{"analyze", "--sizes", "10,30,90"}, ""},
		{"analyze opt in", []string{"analyze", "--sizes", "10,30,90", "--candidate-plans"}, "10,20,40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--candidates", "planned", "--iterations", "1", "--json")
			code, out, errOut := run(t, args...)
			if code != apperrors.ExitSuccess {
				t.Fatalf("code = %d, stderr %q", code, errOut)
			}
			var report cli.JSONReport
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				t.Fatalf("stdout is not a JSON report: %v\n%s", err, out)
			}
			if len(report.Results) != 1 {
				t.Fatalf("results = %+v", report.Results)
			}
			got := report.Results[0]
			if got.SizePlan != tt.wantPlan {
				t.Errorf("result sizePlan = %q, want %q", got.SizePlan, tt.wantPlan)
			}
			if got.Result == nil {
				t.Fatalf("analysis failed: %s", got.Error)
			}
			wantN := []int{10, 30, 90}
			if tt.wantPlan != "" {
				wantN = []int{10, 20, 40}
			}
			if len(got.Result.Samples) != len(wantN) || got.Result.Samples[2].N != wantN[2] {
				t.Errorf("samples = %+v, want sizes %v", got.Result.Samples, wantN)
			}
		})
	}
}

func TestRun_HistoryRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	code, _, _ := run(t, "--candidates", "noop", "--sizes", "10,20,40", "--iterations", "1", "--quiet", "--history", db)
	if code != apperrors.ExitSuccess {
		t.Fatalf("analysis code = %d", code)
	}

	code, out, _ := run(t, "history", "--history", db, "--json")
	if code != apperrors.ExitSuccess {
		t.Fatalf("history code = %d", code)
	}
	var records []struct {
		ID        string `json:"id"`
		Candidate string `json:"candidate"`
		Plan      string `json:"plan"`
	}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("history --json: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0].Candidate != "noop" || records[0].Plan != "10,20,40" {
		t.Fatalf("records = %+v", records)
	}

	code, out, _ = run(t, "history", "show", records[0].ID[:8], "--history", db)
	if code != apperrors.ExitSuccess || !strings.Contains(out, "noop") {
		t.Errorf("history show: code %d, out %q", code, out)
	}

	code, _, _ = run(t, "history", "show", "ffffffff-none", "--history", db)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("unknown record: code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_HistoryRequiresPath(t *testing.T) {
	t.Setenv("BIGOCALC_HISTORY", "")
	code, _, _ := run(t, "history")
	if code != apperrors.ExitErrorConfig {
		t.Errorf("code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_REPL(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out, errOut bytes.Buffer
	a := New([]string{"bigocalc", "repl"}, &errOut, WithRegistry(testRegistry(t)), WithLogger(logging.Nop()))
	root := a.newRootCommand(&out)
	root.SetArgs([]string{"repl"})
	root.SetIn(strings.NewReader("list\nexit\n"))
	root.SetOut(&out)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "noop") {
		t.Errorf("repl output missing candidate list:\n%s", out.String())
	}
}
