package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a
// no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by
// forwarding aggregated updates as bubbletea messages.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends a ProgressMsg per update.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numCandidates int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numCandidates)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		t.ref.Send(ProgressMsg{AggregatedProgress: agg.Update(update), Generation: t.generation})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler. Results reach the model with
// AnalysisCompleteMsg, so only errors are forwarded from here.
type TUIResultPresenter struct {
	ref *programRef
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable is a no-op; the candidates panel shows the table.
func (t *TUIResultPresenter) PresentComparisonTable([]orchestration.AnalysisResult, orchestration.PresentationOptions, io.Writer) {
}

// PresentResult is a no-op; the result panel shows the selected candidate.
func (t *TUIResultPresenter) PresentResult(orchestration.AnalysisResult, orchestration.PresentationOptions, io.Writer) {
}

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleAnalysisError(err, duration, io.Discard, nil)
}
