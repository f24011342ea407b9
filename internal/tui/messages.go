package tui

import (
	"time"

	"github.com/agbru/bigocalc/internal/orchestration"
)

// ProgressMsg carries one aggregated measurement update.
type ProgressMsg struct {
	orchestration.AggregatedProgress
	Generation uint64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// AnalysisCompleteMsg carries the results of a whole batch.
type AnalysisCompleteMsg struct {
	Results    []orchestration.AnalysisResult
	ExitCode   int
	Generation uint64
}

// ErrorMsg reports that every analysis of a batch failed.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries Go runtime memory statistics.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries system-wide CPU and memory usage.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
