package orchestration

import (
	"time"

	"github.com/agbru/bigocalc/internal/format"
)

// ProgressAggregator manages multi-candidate progress aggregation.
// It wraps format.ProgressWithETA so the CLI and TUI share the same
// aggregation and ETA logic.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numCandidates int
}

// NewProgressAggregator creates a new aggregator for the given number
// of candidates. Returns nil if numCandidates <= 0.
func NewProgressAggregator(numCandidates int) *ProgressAggregator {
	if numCandidates <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numCandidates),
		numCandidates: numCandidates,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	Update ProgressUpdate
	// Value is the candidate's own completion fraction.
	Value float64
	// AverageProgress is the aggregated average across all candidates.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.CandidateIndex, update.Value())
	return AggregatedProgress{
		Update:          update,
		Value:           update.Value(),
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumCandidates returns the number of candidates being tracked.
func (a *ProgressAggregator) NumCandidates() int {
	return a.numCandidates
}

// IsMultiCandidate returns true if tracking more than one candidate.
func (a *ProgressAggregator) IsMultiCandidate() bool {
	return a.numCandidates > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
