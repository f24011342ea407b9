package bench

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/bigocalc/internal/bench/mocks"
	apperrors "github.com/agbru/bigocalc/internal/errors"
)

// fakeClock only moves when told to.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// costly returns a candidate that advances clock by cost(n) per call.
func costly(clock *fakeClock, cost func(n int) time.Duration) Func {
	return func(input any) (any, error) {
		n, ok := input.(int)
		if !ok {
			n = len(input.([]int))
		}
		clock.advance(cost(n))
		return nil, nil
	}
}

func testConfig() Config {
	return Config{
		WarmupRuns:           3,
		CalibrationThreshold: 5 * time.Millisecond,
		CalibrationCap:       1_000_000,
		TargetDuration:       15 * time.Millisecond,
		Iterations:           4,
	}
}

func TestBenchmark_EmptySizes(t *testing.T) {
	t.Parallel()

	calls := 0
	fn := func(any) (any, error) { calls++; return nil, nil }
	samples, err := New().Benchmark(context.Background(), fn, nil, 5, ModeSequence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if samples == nil || len(samples) != 0 {
		t.Errorf("samples = %v, want empty", samples)
	}
	if calls != 0 {
		t.Errorf("candidate called %d times, want 0", calls)
	}
}

func TestBenchmark_MockedClockIsDeterministic(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	now := time.Unix(0, 0)
	clock.EXPECT().Now().DoAndReturn(func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}).AnyTimes()

	var measured []Measurement
	b := New(
		WithConfig(testConfig()),
		WithClock(clock),
		WithObserver(ObserverFunc(func(_, _ int, m Measurement) { measured = append(measured, m) })),
	)
	fn := func(any) (any, error) { return nil, nil }
	sizes := []int{10, 20, 40}

	first, err := b.Benchmark(context.Background(), fn, sizes, 0, ModeSequence)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := b.Benchmark(context.Background(), fn, sizes, 0, ModeSequence)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ: %v vs %v", first, second)
	}

	for i, s := range first {
		if s.N != sizes[i] {
			t.Errorf("sample %d has n=%d, want %d", i, s.N, sizes[i])
		}
		// Five calibration calls of 1ms each give a batch of 15; every
		// timed batch then reads 1ms.
		if math.Abs(s.Time-1.0/15) > 1e-12 {
			t.Errorf("sample %d time = %g, want 1/15", i, s.Time)
		}
	}
	if len(measured) != 2*len(sizes) {
		t.Fatalf("observer saw %d measurements, want %d", len(measured), 2*len(sizes))
	}
	if measured[0].BatchSize != 15 || measured[0].CalibrationCount != 5 || len(measured[0].PerCall) != 4 {
		t.Errorf("measurement = %+v", measured[0])
	}
}

func TestBenchmark_StalledClockUsesCap(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Unix(100, 0)).AnyTimes()

	cfg := testConfig()
	cfg.CalibrationCap = 50
	var got Measurement
	b := New(WithConfig(cfg), WithClock(clock),
		WithObserver(ObserverFunc(func(_, _ int, m Measurement) { got = m })))

	calls := 0
	samples, err := b.Benchmark(context.Background(), func(any) (any, error) { calls++; return nil, nil }, []int{7}, 2, ModeScalar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CalibrationCount != 50 || got.BatchSize != 50 {
		t.Errorf("calibration = %d calls, batch %d; want 50 and 50", got.CalibrationCount, got.BatchSize)
	}
	if samples[0].Time != 0 {
		t.Errorf("time = %g, want 0 on a clock that never moves", samples[0].Time)
	}
	if want := cfg.WarmupRuns + 50 + 2*50; calls != want {
		t.Errorf("candidate called %d times, want %d", calls, want)
	}
}

func TestBenchmark_SimulatedCost(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New(WithConfig(testConfig()), WithClock(clock))
	fn := costly(clock, func(n int) time.Duration { return time.Duration(n) * time.Microsecond })

	samples, err := b.Benchmark(context.Background(), fn, []int{100, 1000, 3000}, 3, ModeScalar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0.1, 1, 3}
	for i, s := range samples {
		if math.Abs(s.Time-want[i]) > 1e-9 {
			t.Errorf("n=%d time = %g ms, want %g", s.N, s.Time, want[i])
		}
	}
}

func TestBenchmark_CandidateErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name      string
		failAt    int
		warmup    int
		wantPhase string
	}{
		{name: "warmup", failAt: 1, warmup: 3, wantPhase: apperrors.PhaseWarmup},
		{name: "calibration", failAt: 1, warmup: 0, wantPhase: apperrors.PhaseCalibration},
		{name: "measurement", failAt: 4, warmup: 0, wantPhase: apperrors.PhaseMeasurement},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := &fakeClock{now: time.Unix(0, 0)}
			cfg := testConfig()
			cfg.WarmupRuns = tt.warmup
			b := New(WithConfig(cfg), WithClock(clock))

			calls := 0
			fn := func(any) (any, error) {
				calls++
				clock.advance(2 * time.Millisecond)
				if calls == tt.failAt {
					return nil, boom
				}
				return nil, nil
			}

			samples, err := b.Benchmark(context.Background(), fn, []int{8, 16}, 2, ModeSequence)
			if samples != nil {
				t.Errorf("samples = %v, want nil on failure", samples)
			}
			if !errors.Is(err, boom) {
				t.Fatalf("error %v does not wrap the candidate error", err)
			}
			if err.Error() != "boom" {
				t.Errorf("Error() = %q, want the cause message", err.Error())
			}
			var ce apperrors.CandidateError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not a CandidateError", err)
			}
			if ce.Phase != tt.wantPhase || ce.N != 8 {
				t.Errorf("phase=%q n=%d, want %q at n=8", ce.Phase, ce.N, tt.wantPhase)
			}
		})
	}
}

func TestBenchmark_FreshInputPerIteration(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New(WithConfig(testConfig()), WithClock(clock))

	seen := map[*int]bool{}
	fn := func(input any) (any, error) {
		seq := input.([]int)
		seen[&seq[0]] = true
		clock.advance(time.Millisecond)
		return nil, nil
	}

	if _, err := b.Benchmark(context.Background(), fn, []int{4}, 6, ModeSequence); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// warmup + calibration + six timed batches
	if len(seen) < 8 {
		t.Errorf("saw %d distinct inputs, want at least 8", len(seen))
	}
}

func TestBenchmark_ContextCanceledBetweenSizes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New(WithConfig(testConfig()), WithClock(clock),
		WithObserver(ObserverFunc(func(index, _ int, _ Measurement) {
			if index == 0 {
				cancel()
			}
		})))

	fn := costly(clock, func(int) time.Duration { return time.Millisecond })
	samples, err := b.Benchmark(ctx, fn, []int{1, 2, 3}, 2, ModeScalar)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if samples != nil {
		t.Errorf("samples = %v, want nil", samples)
	}
}

func TestBenchmark_InputOrderPreserved(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New(WithConfig(testConfig()), WithClock(clock))
	fn := costly(clock, func(n int) time.Duration { return time.Duration(n) * time.Microsecond })

	sizes := []int{300, 100, 200}
	samples, err := b.Benchmark(context.Background(), fn, sizes, 1, ModeScalar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]int, len(samples))
	for i, s := range samples {
		got[i] = s.N
	}
	if !reflect.DeepEqual(got, sizes) {
		t.Errorf("sample order = %v, want %v", got, sizes)
	}
}

func TestBatchSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		count   int
		elapsed time.Duration
		want    int
	}{
		{name: "scales to target", count: 5, elapsed: 5 * time.Millisecond, want: 15},
		{name: "rounds up", count: 1, elapsed: 4 * time.Millisecond, want: 4},
		{name: "slow call floors at one", count: 1, elapsed: time.Second, want: 1},
		{name: "stalled clock uses cap", count: 10, elapsed: 0, want: 1000},
		{name: "capped", count: 1000, elapsed: time.Microsecond, want: 1000},
	}
	for _, tt := range tests {
		if got := batchSize(15*time.Millisecond, tt.count, tt.elapsed, 1000); got != tt.want {
			t.Errorf("%s: batchSize = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPerCallMillis(t *testing.T) {
	t.Parallel()

	if got := perCallMillis(3*time.Millisecond, 3); got != 1 {
		t.Errorf("perCallMillis = %g, want 1", got)
	}
	if got := perCallMillis(-time.Millisecond, 1); got != 0 {
		t.Errorf("negative reading = %g, want 0", got)
	}
}

func TestBenchmark_PinThread(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	cfg := testConfig()
	cfg.PinThread = true
	b := New(WithConfig(cfg), WithClock(clock))
	fn := costly(clock, func(int) time.Duration { return time.Millisecond })

	samples, err := b.Benchmark(context.Background(), fn, []int{1, 2}, 1, ModeScalar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("len(samples) = %d, want 2", len(samples))
	}
}
