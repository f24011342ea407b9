// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Write* functions serialise data to a writer or a file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/orchestration"
)

// JSONResult is the machine-readable outcome of one candidate.
type JSONResult struct {
	Candidate string `json:"candidate"`
	Expected  string `json:"expected,omitempty"`
	// SizePlan and Sizes are set only when the candidate was measured with
	// its own plan rather than the report's.
	SizePlan string `json:"sizePlan,omitempty"`
	Sizes    []int  `json:"sizes,omitempty"`
	// Result is omitted when the analysis failed.
	Result *complexity.Result `json:"result,omitempty"`
	// LowConfidence tells consumers to hide the label by default.
	LowConfidence bool    `json:"lowConfidence"`
	Match         *bool   `json:"match,omitempty"`
	DurationMs    float64 `json:"durationMs"`
	Error         string  `json:"error,omitempty"`
}

// JSONReport is the document written by --json and --output.
type JSONReport struct {
	Generated  time.Time    `json:"generated"`
	SizePlan   string       `json:"sizePlan"`
	Sizes      []int        `json:"sizes"`
	Iterations int          `json:"iterations"`
	Results    []JSONResult `json:"results"`
}

// NewJSONReport converts orchestration results to the JSON document.
func NewJSONReport(results []orchestration.AnalysisResult, plan string, sizes []int, iterations int, opts orchestration.PresentationOptions) JSONReport {
	report := JSONReport{
		Generated:  time.Now().UTC(),
		SizePlan:   plan,
		Sizes:      sizes,
		Iterations: iterations,
		Results:    make([]JSONResult, 0, len(results)),
	}
	for _, r := range results {
		jr := JSONResult{
			Candidate:  r.Name,
			Expected:   r.Expected,
			DurationMs: float64(r.Duration) / float64(time.Millisecond),
		}
		if r.Plan != "" && r.Plan != plan {
			jr.SizePlan = r.Plan
			jr.Sizes = r.Sizes
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			res := r.Result
			jr.Result = &res
			jr.LowConfidence = IsLowConfidence(res.Confidence, opts)
			if r.Expected != "" {
				match := r.Matches()
				jr.Match = &match
			}
		}
		report.Results = append(report.Results, jr)
	}
	return report
}

// WriteJSON writes report as indented JSON.
func WriteJSON(out io.Writer, report JSONReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteReportToFile writes report to path, creating parent directories.
//
// Returns:
//   - error: An error if the directory or file cannot be written.
func WriteReportToFile(path string, report JSONReport) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteJSON(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

// FormatQuietResult renders one result as a tab-separated line for scripts:
// name, label (or "low-confidence"/"error") and confidence.
func FormatQuietResult(r orchestration.AnalysisResult, opts orchestration.PresentationOptions) string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s\terror\t0", r.Name)
	case r.Result.IsDetermined() && IsLowConfidence(r.Result.Confidence, opts) && !opts.Reveal:
		return fmt.Sprintf("%s\tlow-confidence\t%d", r.Name, r.Result.Confidence)
	}
	return fmt.Sprintf("%s\t%s\t%d", r.Name, r.Result.BestFit, r.Result.Confidence)
}

// DisplayQuietResults prints one FormatQuietResult line per result.
func DisplayQuietResults(out io.Writer, results []orchestration.AnalysisResult, opts orchestration.PresentationOptions) {
	for _, r := range results {
		fmt.Fprintln(out, FormatQuietResult(r, opts))
	}
}
