package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/orchestration"
)

func testCandidates() []candidates.Candidate {
	noop := func(input any) (any, error) { return input, nil }
	return []candidates.Candidate{
		{Name: "sum", Mode: bench.ModeSequence, Expected: complexity.LabelLinear, Fn: noop},
		{Name: "sort", Mode: bench.ModeSequence, Expected: complexity.LabelLinearithmic, Fn: noop},
	}
}

func linearResult(name string, confidence int) orchestration.AnalysisResult {
	return orchestration.AnalysisResult{
		Name:     name,
		Expected: complexity.LabelLinear,
		Duration: 20 * time.Millisecond,
		Result: complexity.Result{
			BestFit:    complexity.LabelLinear,
			Confidence: confidence,
			Regime:     complexity.RegimeStandard,
			Fits: []complexity.ModelFit{
				{Label: complexity.LabelConstant, Rank: 0, RMSE: 3},
				{Label: complexity.LabelLinear, Rank: 2, RMSE: 0, Slope: 0.01},
			},
			Samples: []complexity.Sample{{N: 100, Time: 1}, {N: 200, Time: 2}, {N: 400, Time: 4}},
		},
	}
}

func failedResult(name string) orchestration.AnalysisResult {
	return orchestration.AnalysisResult{Name: name, Err: errors.New("boom")}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), Session{
		Candidates: testCandidates(),
		Sizes:      []int{100, 200, 400},
		Plan:       "100,200,400",
		Options:    orchestration.PresentationOptions{ConfidenceThreshold: 75},
	}, "v1.0.0")
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
