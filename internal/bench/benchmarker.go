package bench

import (
	"context"
	"math"
	"time"

	"github.com/agbru/bigocalc/internal/complexity"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/logging"
)

// Func is a candidate under measurement. The returned value is discarded.
type Func func(input any) (any, error)

// Config holds the measurement constants.
type Config struct {
	// WarmupRuns is the number of untimed calls made once, on the smallest
	// size, before any measurement.
	WarmupRuns int
	// CalibrationThreshold is the elapsed time at which calibration stops.
	CalibrationThreshold time.Duration
	// CalibrationCap bounds both the calibration call count and the batch
	// size.
	CalibrationCap int
	// TargetDuration is the wall time one timed batch should take.
	TargetDuration time.Duration
	// Iterations is the number of timed batches per size when the caller
	// passes a non-positive count.
	Iterations int
	// PinThread locks the measuring goroutine to one OS thread, and on
	// Linux to one CPU, for the whole run.
	PinThread bool
}

// DefaultConfig returns the standard measurement constants.
func DefaultConfig() Config {
	return Config{
		WarmupRuns:           100,
		CalibrationThreshold: 5 * time.Millisecond,
		CalibrationCap:       1_000_000,
		TargetDuration:       15 * time.Millisecond,
		Iterations:           10,
	}
}

// Measurement is the detailed outcome for one size.
type Measurement struct {
	N                int
	BatchSize        int
	CalibrationCount int
	// PerCall holds the per-call time, in milliseconds, of each batch.
	PerCall []float64
	Mean    float64
	StdDev  float64
}

// Observer is notified after each size has been measured.
type Observer interface {
	OnMeasurement(index, total int, m Measurement)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(index, total int, m Measurement)

// OnMeasurement calls f.
func (f ObserverFunc) OnMeasurement(index, total int, m Measurement) { f(index, total, m) }

type noopObserver struct{}

func (noopObserver) OnMeasurement(int, int, Measurement) {}

// Option configures a Benchmarker.
type Option func(*Benchmarker)

// WithConfig replaces the measurement constants.
func WithConfig(cfg Config) Option {
	return func(b *Benchmarker) { b.cfg = cfg }
}

// WithClock replaces the time source.
func WithClock(c Clock) Option {
	return func(b *Benchmarker) { b.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Benchmarker) { b.logger = l }
}

// WithObserver registers a per-size observer.
func WithObserver(o Observer) Option {
	return func(b *Benchmarker) { b.observer = o }
}

// Benchmarker times candidates. A Benchmarker holds no per-run state, but
// concurrent runs distort each other's timings and should be avoided.
type Benchmarker struct {
	cfg      Config
	clock    Clock
	logger   logging.Logger
	observer Observer
}

// New builds a Benchmarker with the default configuration and system clock.
func New(opts ...Option) *Benchmarker {
	b := &Benchmarker{
		cfg:      DefaultConfig(),
		clock:    SystemClock{},
		logger:   logging.Nop(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cfg.CalibrationCap < 1 {
		b.cfg.CalibrationCap = 1
	}
	if b.observer == nil {
		b.observer = noopObserver{}
	}
	return b
}

// Config returns the measurement constants in use.
func (b *Benchmarker) Config() Config { return b.cfg }

// ObservedBy returns a copy of b that reports to o.
func (b *Benchmarker) ObservedBy(o Observer) *Benchmarker {
	cp := *b
	cp.observer = o
	if o == nil {
		cp.observer = noopObserver{}
	}
	return &cp
}

// Benchmark returns one sample per size, in the order given.
//
// A non-positive iterations count uses Config.Iterations. The first error
// returned by fn aborts the run and is returned as an
// apperrors.CandidateError. ctx is checked between sizes.
func (b *Benchmarker) Benchmark(ctx context.Context, fn Func, sizes []int, iterations int, mode Mode) ([]complexity.Sample, error) {
	if len(sizes) == 0 {
		return []complexity.Sample{}, nil
	}
	if iterations <= 0 {
		iterations = b.cfg.Iterations
	}
	if iterations <= 0 {
		iterations = 1
	}

	ctx, span := startBenchmarkSpan(ctx, len(sizes), iterations, mode)
	defer span.End()

	if b.cfg.PinThread {
		release := pinThread(b.logger)
		defer release()
	}

	if err := b.warmup(fn, smallest(sizes), mode); err != nil {
		endSpanWithError(span, err)
		return nil, err
	}

	samples := make([]complexity.Sample, 0, len(sizes))
	for i, n := range sizes {
		if err := ctx.Err(); err != nil {
			endSpanWithError(span, err)
			return nil, err
		}

		m, err := b.measureSize(fn, n, iterations, mode)
		if err != nil {
			endSpanWithError(span, err)
			return nil, err
		}

		b.logger.Debug("size measured",
			logging.Int("n", n),
			logging.Int("batch_size", m.BatchSize),
			logging.Int("calibration_calls", m.CalibrationCount),
			logging.Float64("mean_ms", m.Mean),
			logging.Float64("stddev_ms", m.StdDev))
		recordSizeEvent(span, m)
		b.observer.OnMeasurement(i, len(sizes), m)

		samples = append(samples, complexity.Sample{N: n, Time: m.Mean})
	}
	return samples, nil
}

func (b *Benchmarker) warmup(fn Func, n int, mode Mode) error {
	input := Materialize(n, mode)
	for i := 0; i < b.cfg.WarmupRuns; i++ {
		if _, err := fn(input); err != nil {
			return apperrors.CandidateError{Phase: apperrors.PhaseWarmup, N: n, Cause: err}
		}
	}
	return nil
}

func (b *Benchmarker) measureSize(fn Func, n, iterations int, mode Mode) (Measurement, error) {
	batch, count, err := b.calibrate(fn, n, mode)
	if err != nil {
		return Measurement{}, err
	}

	perCall := make([]float64, iterations)
	for i := range perCall {
		input := Materialize(n, mode)
		start := b.clock.Now()
		for j := 0; j < batch; j++ {
			if _, err := fn(input); err != nil {
				return Measurement{}, apperrors.CandidateError{Phase: apperrors.PhaseMeasurement, N: n, Cause: err}
			}
		}
		perCall[i] = perCallMillis(b.clock.Now().Sub(start), batch)
	}

	mean, stddev := meanStdDev(perCall)
	return Measurement{
		N:                n,
		BatchSize:        batch,
		CalibrationCount: count,
		PerCall:          perCall,
		Mean:             mean,
		StdDev:           stddev,
	}, nil
}

// calibrate calls fn on one input until CalibrationThreshold has elapsed or
// CalibrationCap calls were made, then derives the batch size that should
// take about TargetDuration.
func (b *Benchmarker) calibrate(fn Func, n int, mode Mode) (batch, count int, err error) {
	input := Materialize(n, mode)
	start := b.clock.Now()
	var elapsed time.Duration
	for elapsed < b.cfg.CalibrationThreshold && count < b.cfg.CalibrationCap {
		if _, err := fn(input); err != nil {
			return 0, count, apperrors.CandidateError{Phase: apperrors.PhaseCalibration, N: n, Cause: err}
		}
		count++
		elapsed = b.clock.Now().Sub(start)
	}
	return batchSize(b.cfg.TargetDuration, count, elapsed, b.cfg.CalibrationCap), count, nil
}

// batchSize scales the calibration rate to the target duration. A clock
// that never advanced yields the cap.
func batchSize(target time.Duration, count int, elapsed time.Duration, limit int) int {
	if elapsed <= 0 {
		return limit
	}
	size := math.Ceil(float64(target) * float64(count) / float64(elapsed))
	switch {
	case size < 1:
		return 1
	case size > float64(limit):
		return limit
	}
	return int(size)
}

// perCallMillis divides a batch duration by its call count. Readings that
// would be negative are clamped to zero.
func perCallMillis(elapsed time.Duration, batch int) float64 {
	v := float64(elapsed) / float64(time.Millisecond) / float64(batch)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func meanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)-1))
}

func smallest(sizes []int) int {
	m := sizes[0]
	for _, n := range sizes[1:] {
		if n < m {
			m = n
		}
	}
	return m
}
