package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/complexity"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/logging"
	"github.com/agbru/bigocalc/internal/metrics"
)

// Report is a classification together with how it was obtained.
type Report struct {
	Result   complexity.Result
	Duration time.Duration
	// Memory covers the benchmarking phase only.
	Memory metrics.MemoryDelta
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records every analysis on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// Analyzer composes a Benchmarker and a Classifier.
type Analyzer struct {
	bench      *bench.Benchmarker
	classifier *complexity.Classifier
	metrics    *metrics.Metrics
	memory     *metrics.MemoryCollector
	logger     logging.Logger
}

// New builds an Analyzer. Nil collaborators are replaced by defaults.
func New(b *bench.Benchmarker, c *complexity.Classifier, opts ...Option) *Analyzer {
	if b == nil {
		b = bench.New()
	}
	if c == nil {
		c = complexity.NewClassifier()
	}
	a := &Analyzer{
		bench:      b,
		classifier: c,
		memory:     metrics.NewMemoryCollector(),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithObserver returns a copy of a whose benchmarker reports each measured
// size to o.
func (a *Analyzer) WithObserver(o bench.Observer) *Analyzer {
	cp := *a
	cp.bench = a.bench.ObservedBy(o)
	return &cp
}

// Classifier returns the classifier in use.
func (a *Analyzer) Classifier() *complexity.Classifier { return a.classifier }

// Analyze estimates the growth class of fn over sizes.
//
// Fewer than two sizes yields the degenerate result without running fn.
// Candidate failures are returned unchanged from the benchmarker.
func (a *Analyzer) Analyze(ctx context.Context, fn bench.Func, sizes []int, iterations int, mode bench.Mode) (complexity.Result, error) {
	rep, err := a.AnalyzeReport(ctx, fn, sizes, iterations, mode)
	if err != nil {
		return complexity.Result{}, err
	}
	return rep.Result, nil
}

// AnalyzeReport is Analyze with timing and memory details.
func (a *Analyzer) AnalyzeReport(ctx context.Context, fn bench.Func, sizes []int, iterations int, mode bench.Mode) (Report, error) {
	if len(sizes) < 2 {
		a.logger.Debug("analysis skipped, not enough sizes", logging.Int("sizes", len(sizes)))
		return Report{Result: complexity.Degenerate()}, nil
	}

	ctx, span := startAnalyzeSpan(ctx, len(sizes), mode)
	defer span.End()

	start := time.Now()
	before := a.memory.Snapshot()
	samples, err := a.bench.Benchmark(ctx, fn, sizes, iterations, mode)
	memDelta := a.memory.Snapshot().Since(before)
	if err != nil {
		a.recordFailure(err)
		endAnalyzeSpanWithError(span, err)
		return Report{}, err
	}

	res := a.classifier.Classify(samples)
	elapsed := time.Since(start)
	setAnalyzeSpanResult(span, res)

	if a.metrics != nil {
		a.metrics.ObserveAnalysis(res.BestFit, res.Confidence, elapsed)
		a.metrics.ObserveGC(memDelta)
	}
	a.logger.Info("analysis complete",
		logging.String("best_fit", res.BestFit),
		logging.Int("confidence", res.Confidence),
		logging.String("regime", string(res.Regime)),
		logging.Int("sizes", len(sizes)),
		logging.Int("dropped", res.Dropped),
		logging.Uint64("gc_cycles", uint64(memDelta.GCCycles)),
		logging.Duration("duration", elapsed))

	return Report{Result: res, Duration: elapsed, Memory: memDelta}, nil
}

func (a *Analyzer) recordFailure(err error) {
	var ce apperrors.CandidateError
	if errors.As(err, &ce) {
		if a.metrics != nil {
			a.metrics.ObserveCandidateFailure(ce.Phase)
		}
		a.logger.Error("candidate failed", err,
			logging.String("phase", ce.Phase),
			logging.Int("n", ce.N))
		return
	}
	a.logger.Error("analysis aborted", err)
}
