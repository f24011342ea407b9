// Package orchestration runs analyses for one or more candidates and
// aggregates their results for comparison. Candidates are measured strictly
// one after another so no two measurements compete for the CPU. It decouples
// the engine from presentation via ProgressReporter and ResultPresenter.
package orchestration
