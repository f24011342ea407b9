package tui

import (
	"strings"
	"testing"

	"github.com/agbru/bigocalc/internal/orchestration"
)

func TestCandidatesModel_CursorBounds(t *testing.T) {
	t.Parallel()
	c := NewCandidatesModel(testCandidates())
	c.MoveUp()
	if c.Cursor() != 0 {
		t.Errorf("cursor = %d after MoveUp at top", c.Cursor())
	}
	c.MoveDown()
	c.MoveDown()
	c.MoveDown()
	if c.Cursor() != 1 {
		t.Errorf("cursor = %d after MoveDown past end, want 1", c.Cursor())
	}
}

func TestCandidatesModel_UpdateProgressIgnoresUnknownIndex(t *testing.T) {
	t.Parallel()
	c := NewCandidatesModel(testCandidates())
	c.UpdateProgress(orchestration.ProgressUpdate{CandidateIndex: 5, TotalSizes: 1})
	c.UpdateProgress(orchestration.ProgressUpdate{CandidateIndex: -1, TotalSizes: 1})
	for i, r := range c.rows {
		if r.progress != 0 {
			t.Errorf("row %d progress = %v", i, r.progress)
		}
	}
}

func TestCandidatesModel_View(t *testing.T) {
	t.Parallel()
	opts := orchestration.PresentationOptions{ConfidenceThreshold: 75}

	tests := []struct {
		name   string
		result orchestration.AnalysisResult
		opts   orchestration.PresentationOptions
		want   string
	}{
		{"confident", linearResult("sum", 95), opts, "O(n) 95%"},
		{"low confidence hidden", linearResult("sum", 40), opts, "uncertain"},
		{"low confidence revealed", linearResult("sum", 40), orchestration.PresentationOptions{ConfidenceThreshold: 75, Reveal: true}, "O(n) 40%"},
		{"failed", failedResult("sum"), opts, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewCandidatesModel(testCandidates())
			c.SetSize(60, 10)
			c.SetResults([]orchestration.AnalysisResult{tt.result})
			view := c.View(tt.opts)
			if !strings.Contains(view, tt.want) {
				t.Errorf("View() missing %q:\n%s", tt.want, view)
			}
			if !strings.Contains(view, "waiting") {
				t.Error("unfinished candidate should be waiting")
			}
		})
	}
}

func TestCandidatesModel_Reset(t *testing.T) {
	t.Parallel()
	c := NewCandidatesModel(testCandidates())
	c.UpdateProgress(orchestration.ProgressUpdate{CandidateIndex: 0, SizeIndex: 0, TotalSizes: 1, N: 10})
	c.SetResults([]orchestration.AnalysisResult{linearResult("sum", 90)})
	c.MoveDown()
	c.Reset()

	if c.Cursor() != 1 {
		t.Error("Reset moved the cursor")
	}
	for i, r := range c.rows {
		if r.progress != 0 || r.result != nil {
			t.Errorf("row %d not cleared", i)
		}
	}
	if c.rows[0].name != "sum" {
		t.Error("Reset lost the names")
	}
}

func TestResultModel_View(t *testing.T) {
	t.Parallel()
	opts := orchestration.PresentationOptions{ConfidenceThreshold: 75}
	var r ResultModel
	r.SetSize(70, 20)

	res := linearResult("sum", 95)
	view := r.View("sum", &res, opts)
	for _, want := range []string{"sum", "O(n)", "confidence 95%", "fitted O(n)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	low := linearResult("sum", 30)
	if view := r.View("sum", &low, opts); !strings.Contains(view, "press v to reveal") || strings.Contains(view, "fitted") {
		t.Errorf("low-confidence view should hide the fit:\n%s", view)
	}

	if view := r.View("sort", nil, opts); !strings.Contains(view, "Measuring") {
		t.Errorf("pending view = %q", view)
	}
	failed := failedResult("sort")
	if view := r.View("sort", &failed, opts); !strings.Contains(view, "boom") {
		t.Errorf("failed view = %q", view)
	}
}
