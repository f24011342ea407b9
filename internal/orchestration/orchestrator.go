package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/bigocalc/internal/analysis"
	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/sizes"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel, relative to the number of sizes.
const ProgressBufferMultiplier = 2

// ExecuteAnalyses analyses each candidate over planSizes, one after another.
//
// Progress is forwarded to progressReporter, which runs in its own
// goroutine for the whole batch. Once ctx is done the remaining candidates
// are recorded with ctx's error and not measured.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - analyzer: The engine used for every candidate.
//   - cands: The candidates to analyse, in presentation order.
//   - planSizes: The sizes every candidate is measured at.
//   - iterations: Timed batches per size; non-positive uses the default.
//   - progressReporter: The progress reporter (NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []AnalysisResult: One result per candidate, in input order.
func ExecuteAnalyses(ctx context.Context, analyzer *analysis.Analyzer, cands []candidates.Candidate, planSizes []int, iterations int, progressReporter ProgressReporter, out io.Writer) []AnalysisResult {
	return execute(ctx, analyzer, cands, func(int) []int { return planSizes }, iterations, progressReporter, out)
}

// ExecutePlannedAnalyses is ExecuteAnalyses with one size plan per
// candidate: cands[i] is measured over plans[i], and each result records
// the plan it was measured with.
func ExecutePlannedAnalyses(ctx context.Context, analyzer *analysis.Analyzer, cands []candidates.Candidate, plans []sizes.Plan, iterations int, progressReporter ProgressReporter, out io.Writer) []AnalysisResult {
	if len(plans) != len(cands) {
		panic(fmt.Sprintf("orchestration: %d plans for %d candidates", len(plans), len(cands)))
	}
	results := execute(ctx, analyzer, cands, func(i int) []int { return plans[i].Sizes() }, iterations, progressReporter, out)
	for i := range results {
		results[i].Plan = plans[i].String()
		results[i].Sizes = plans[i].Sizes()
	}
	return results
}

func execute(ctx context.Context, analyzer *analysis.Analyzer, cands []candidates.Candidate, sizesOf func(int) []int, iterations int, progressReporter ProgressReporter, out io.Writer) []AnalysisResult {
	results := make([]AnalysisResult, len(cands))
	longest := 1
	for i := range cands {
		longest = max(longest, len(sizesOf(i)))
	}
	progressChan := make(chan ProgressUpdate, longest*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(cands), out)

	for i, c := range cands {
		if err := ctx.Err(); err != nil {
			results[i] = AnalysisResult{Name: c.Name, Expected: c.Expected, Err: err}
			continue
		}

		idx, name := i, c.Name
		observer := bench.ObserverFunc(func(sizeIndex, total int, m bench.Measurement) {
			progressChan <- ProgressUpdate{
				CandidateIndex: idx,
				Candidate:      name,
				SizeIndex:      sizeIndex,
				TotalSizes:     total,
				N:              m.N,
				Mean:           m.Mean,
			}
		})

		start := time.Now()
		rep, err := analyzer.WithObserver(observer).AnalyzeReport(ctx, c.Fn, sizesOf(i), iterations, c.Mode)
		results[i] = AnalysisResult{
			Name:     c.Name,
			Expected: c.Expected,
			Result:   rep.Result,
			Duration: time.Since(start),
			Memory:   rep.Memory,
			Err:      err,
		}
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

// AnalyzeComparisonResults presents the results and derives the exit code.
//
// A mismatch is a confident classification (confidence above the
// threshold) that disagrees with the candidate's expected class.
// Low-confidence disagreements are reported but never fail the run.
//
// Parameters:
//   - results: The results to analyse.
//   - opts: Presentation options.
//   - presenter: The result presenter for display formatting.
//   - errHandler: Maps the first error to an exit code when every analysis failed.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []AnalysisResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	var firstError error
	successCount := 0
	mismatches := 0

	for _, r := range results {
		if r.Err != nil {
			if firstError == nil {
				firstError = r.Err
			}
			continue
		}
		successCount++
		if !r.Matches() && r.Result.Confidence > opts.ConfidenceThreshold {
			mismatches++
		}
	}

	if len(results) > 1 {
		presenter.PresentComparisonTable(results, opts, out)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No candidate could be analysed.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	if len(results) == 1 || opts.Verbose {
		for _, r := range results {
			if r.Err == nil {
				presenter.PresentResult(r, opts, out)
			}
		}
	}

	if mismatches > 0 {
		fmt.Fprintf(out, "\nGlobal Status: Mismatch. %d candidate(s) were confidently classified differently than expected.\n", mismatches)
		return apperrors.ExitErrorMismatch
	}

	if successCount < len(results) {
		fmt.Fprintf(out, "\nGlobal Status: Partial. %d of %d candidates analysed.\n", successCount, len(results))
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. All classifications agree with expectations.\n")
	return apperrors.ExitSuccess
}
