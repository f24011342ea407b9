package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/cli"
	"github.com/agbru/bigocalc/internal/config"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/history"
	"github.com/agbru/bigocalc/internal/logging"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/sizes"
	"github.com/agbru/bigocalc/internal/sysmon"
	"github.com/agbru/bigocalc/internal/tui"
	"github.com/agbru/bigocalc/internal/ui"
)

// loadSampleInterval is how long the CPU is sampled before measuring.
const loadSampleInterval = 200 * time.Millisecond

// runAnalyze orchestrates one analysis run and returns its exit code.
func (a *Application) runAnalyze(ctx context.Context, cfg config.AppConfig, tuning config.Tuning, out io.Writer) int {
	plan, err := sizes.Parse(cfg.Sizes)
	if err != nil {
		return apperrors.HandleAnalysisError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	mode, err := cfg.InputMode()
	if err != nil {
		return apperrors.HandleAnalysisError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	cands, err := orchestration.SelectCandidates(a.Registry, cfg.Candidates, mode)
	if err != nil {
		return apperrors.HandleAnalysisError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	plans, err := candidatePlans(cands, plan, cfg.CandidatePlans)
	if err != nil {
		return apperrors.HandleAnalysisError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	ctx, cancel := lifecycle(ctx, cfg.Timeout)
	defer cancel()

	analyzer := a.newAnalyzer(cfg, tuning)
	opts := presentation(cfg)

	if cfg.TUI {
		return tui.Run(ctx, tui.Session{
			Analyzer:   analyzer,
			Candidates: cands,
			Sizes:      plan.Sizes(),
			Iterations: cfg.Iterations,
			Options:    opts,
			Plan:       plan.String(),
		}, Version)
	}

	interactive := !cfg.Quiet && !cfg.JSON
	if interactive {
		a.checkLoad()
		cli.PrintExecutionConfig(plan, tuning.BenchConfig(cfg), out)
		cli.PrintCandidatePlans(cands, plans, plan, out)
		cli.PrintExecutionMode(cands, out)
	}

	var progressReporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	progressOut := io.Discard
	if interactive {
		progressReporter = cli.CLIProgressReporter{}
		progressOut = out
	}
	results := orchestration.ExecutePlannedAnalyses(ctx, analyzer, cands, plans, cfg.Iterations, progressReporter, progressOut)

	presenter := cli.CLIResultPresenter{}
	var exitCode int
	switch {
	case cfg.JSON:
		exitCode = orchestration.AnalyzeComparisonResults(results, opts, discardPresenter{}, presenter, io.Discard)
		if err := cli.WriteJSON(out, cli.NewJSONReport(results, plan.String(), plan.Sizes(), cfg.Iterations, opts)); err != nil {
			a.Logger.Error("writing JSON report", err)
			return apperrors.ExitErrorGeneric
		}
	case cfg.Quiet:
		exitCode = orchestration.AnalyzeComparisonResults(results, opts, discardPresenter{}, presenter, io.Discard)
		cli.DisplayQuietResults(out, results, opts)
	default:
		exitCode = orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, out)
	}

	if cfg.OutputFile != "" {
		report := cli.NewJSONReport(results, plan.String(), plan.Sizes(), cfg.Iterations, opts)
		if err := cli.WriteReportToFile(cfg.OutputFile, report); err != nil {
			a.Logger.Error("saving report", err, logging.String("path", cfg.OutputFile))
			return apperrors.ExitErrorGeneric
		}
		if interactive {
			th := ui.GetCurrentTheme()
			fmt.Fprintf(out, "\n%s %s\n", th.Paint(th.Good, "✓ Report saved to:"), th.Paint(th.Accent, cfg.OutputFile))
		}
	}

	a.recordHistory(cfg.HistoryPath, results, cands, plans, cfg.Iterations)
	return exitCode
}

// candidatePlans returns the size plan of each candidate: its own
// recommended plan when enabled and present, the run plan otherwise.
func candidatePlans(cands []candidates.Candidate, plan sizes.Plan, enabled bool) ([]sizes.Plan, error) {
	plans := make([]sizes.Plan, len(cands))
	for i, c := range cands {
		plans[i] = plan
		if !enabled || c.Plan == "" {
			continue
		}
		p, err := sizes.Parse(c.Plan)
		if err != nil {
			return nil, apperrors.WrapError(err, "candidate %q has an invalid size plan", c.Name)
		}
		plans[i] = p
	}
	return plans, nil
}

// checkLoad warns when the machine is busy enough to skew timings.
func (a *Application) checkLoad() {
	s := sysmon.SampleOver(loadSampleInterval)
	if w := s.LoadWarning(); w != "" {
		a.Logger.Warn("high system load before measuring", logging.Float64("cpu_percent", s.CPUPercent))
		a.warnf("%s", w)
	}
}

// recordHistory stores the successful results when a history path is set.
// Failures are logged and never change the exit code.
func (a *Application) recordHistory(path string, results []orchestration.AnalysisResult, cands []candidates.Candidate, plans []sizes.Plan, iterations int) {
	if path == "" {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		a.Logger.Error("opening history", err, logging.String("path", path))
		return
	}
	defer store.Close()

	for i, r := range results {
		if r.Err != nil {
			continue
		}
		rec, err := store.Save(history.NewRecord(r, cands[i].Mode, plans[i], iterations))
		if err != nil {
			a.Logger.Error("saving history record", err, logging.String("candidate", r.Name))
			continue
		}
		a.Logger.Debug("history record saved", logging.String("id", rec.ID), logging.String("candidate", r.Name))
	}
}

// discardPresenter drops presentation when another format (JSON or quiet
// lines) is printed instead.
type discardPresenter struct{}

func (discardPresenter) PresentComparisonTable([]orchestration.AnalysisResult, orchestration.PresentationOptions, io.Writer) {
}

func (discardPresenter) PresentResult(orchestration.AnalysisResult, orchestration.PresentationOptions, io.Writer) {
}
