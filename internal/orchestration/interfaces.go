package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/metrics"
)

// AnalysisResult is the outcome of analysing one candidate. It is the
// shared domain type between orchestration and presentation layers.
type AnalysisResult struct {
	// Name identifies the candidate.
	Name string
	// Expected is the class the candidate is known to have, if any.
	Expected string
	// Result is the classification. It is the zero value if Err is set.
	Result complexity.Result
	// Duration is the wall time of the analysis.
	Duration time.Duration
	// Memory reports GC activity during measurement.
	Memory metrics.MemoryDelta
	// Err is the error that aborted the analysis.
	Err error
	// Plan and Sizes are the size plan the candidate was measured with.
	// They are set only by ExecutePlannedAnalyses.
	Plan  string
	Sizes []int
}

// Matches reports whether a successful result agrees with the expected
// class. Results without an expectation always match.
func (r AnalysisResult) Matches() bool {
	return r.Err == nil && (r.Expected == "" || r.Result.BestFit == r.Expected)
}

// ProgressUpdate is sent after each size of a candidate has been measured.
type ProgressUpdate struct {
	CandidateIndex int
	Candidate      string
	SizeIndex      int
	TotalSizes     int
	N              int
	// Mean is the measured per-call time in milliseconds.
	Mean float64
}

// Value is the candidate's completion fraction after this update.
func (u ProgressUpdate) Value() float64 {
	if u.TotalSizes <= 0 {
		return 0
	}
	return float64(u.SizeIndex+1) / float64(u.TotalSizes)
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	// Reveal shows the best-fit label even when confidence is low.
	Reveal bool
	// Chart draws the measurements next to the fitted curve.
	Chart bool
	// ConfidenceThreshold is the score at or below which a label is
	// considered unreliable.
	ConfidenceThreshold int
}

// LowConfidence reports whether a label with this confidence should be
// hidden unless Reveal is set.
func (o PresentationOptions) LowConfidence(confidence int) bool {
	return confidence <= o.ConfidenceThreshold
}

// ProgressReporter defines the interface for displaying analysis progress.
// Implementations handle the visual representation of progress (spinners,
// progress bars) while the orchestration layer coordinates the analyses.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed and
	// then calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numCandidates int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numCandidates int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numCandidates int, out io.Writer) {
	f(wg, progressChan, numCandidates, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting analysis results,
// allowing different output formats without modifying orchestration logic.
type ResultPresenter interface {
	// PresentComparisonTable displays one summary row per candidate.
	PresentComparisonTable(results []AnalysisResult, opts PresentationOptions, out io.Writer)

	// PresentResult displays the detailed report of one candidate.
	PresentResult(result AnalysisResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler handles analysis errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
