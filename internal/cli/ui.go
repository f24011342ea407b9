package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/bigocalc/internal/format"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 24
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It decouples DisplayProgress from a specific spinner implementation.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner's lock because the animation goroutine
// reads the suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner followed by the current size and an ETA progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numCandidates int, out io.Writer) {
	DisplayProgress(wg, progressChan, numCandidates, out)
}

// DisplayProgress renders progress updates until progressChan is closed.
// With no candidates it only drains the channel.
//
// Parameters:
//   - wg: Marked done when the channel is exhausted.
//   - progressChan: The updates produced by the orchestrator.
//   - numCandidates: The number of candidates in the batch.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numCandidates int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numCandidates)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(" Warming up...")
	s.Start()
	defer s.Stop()

	for update := range progressChan {
		s.UpdateSuffix(FormatProgressSuffix(agg.Update(update), agg.IsMultiCandidate()))
	}
}

// FormatProgressSuffix renders one aggregated update as spinner text. In a
// multi-candidate batch the bar shows the overall average.
func FormatProgressSuffix(ap orchestration.AggregatedProgress, multi bool) string {
	th := ui.GetCurrentTheme()
	u := ap.Update
	value := ap.Value
	if multi {
		value = ap.AverageProgress
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s  n=%s (%d/%d) %s  ",
		th.Paint(th.Accent, u.Candidate),
		format.FormatSize(u.N), u.SizeIndex+1, u.TotalSizes,
		th.Paint(th.Muted, format.FormatMillis(u.Mean)))
	b.WriteString(format.FormatProgressBarWithETA(value, ap.ETA, ProgressBarWidth))
	return b.String()
}
