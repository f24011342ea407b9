package complexity

import (
	"encoding/json"
	"math"
	"testing"
)

func samplesFrom(sizes []int, f func(n float64) float64) []Sample {
	out := make([]Sample, len(sizes))
	for i, n := range sizes {
		out[i] = Sample{N: n, Time: f(float64(n))}
	}
	return out
}

func TestClassify_SyntheticClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []Sample
		want    string
	}{
		{
			name:    "flat timings",
			samples: samplesFrom([]int{10, 100, 1000, 10000}, func(float64) float64 { return 0.5 }),
			want:    LabelConstant,
		},
		{
			name: "flat timings with jitter",
			samples: []Sample{
				{N: 10, Time: 0.500},
				{N: 100, Time: 0.502},
				{N: 1000, Time: 0.499},
				{N: 10000, Time: 0.501},
			},
			want: LabelConstant,
		},
		{
			name:    "linear timings",
			samples: samplesFrom([]int{1000, 2000, 4000, 8000}, func(n float64) float64 { return 0.002*n + 0.1 }),
			want:    LabelLinear,
		},
		{
			name:    "quadratic timings",
			samples: samplesFrom([]int{100, 200, 400, 800}, func(n float64) float64 { return 1e-5 * n * n }),
			want:    LabelQuadratic,
		},
		{
			name:    "logarithmic timings",
			samples: samplesFrom([]int{10, 10000, 10000000}, func(n float64) float64 { return 0.01*math.Log(n) + 0.05 }),
			want:    LabelLogarithmic,
		},
		{
			name:    "linearithmic timings",
			samples: samplesFrom([]int{1000, 4000, 16000, 64000, 256000}, func(n float64) float64 { return 1e-4 * n * math.Log(n) }),
			want:    LabelLinearithmic,
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tt.samples)
			if got.BestFit != tt.want {
				t.Errorf("BestFit = %q, want %q (fits %+v)", got.BestFit, tt.want, got.Fits)
			}
			if got.Regime != RegimeStandard {
				t.Errorf("Regime = %q, want %q", got.Regime, RegimeStandard)
			}
			if got.Confidence < 0 || got.Confidence > 100 {
				t.Errorf("Confidence = %d out of range", got.Confidence)
			}
			if len(got.Fits) != len(DefaultCatalog()) {
				t.Errorf("len(Fits) = %d, want %d", len(got.Fits), len(DefaultCatalog()))
			}
		})
	}
}

func TestClassify_ExactConstantConfidence(t *testing.T) {
	t.Parallel()

	got := NewClassifier().Classify(samplesFrom([]int{10, 100, 1000, 10000}, func(float64) float64 { return 0.5 }))
	if got.BestFit != LabelConstant {
		t.Fatalf("BestFit = %q, want constant", got.BestFit)
	}
	// Every model fits flat data exactly, so there is no distinct runner-up
	// and only the fit-quality term contributes.
	if got.Confidence != 70 {
		t.Errorf("Confidence = %d, want 70", got.Confidence)
	}
	for _, f := range got.Fits {
		if f.RMSE > 1e-12 {
			t.Errorf("%s RMSE = %g, want ~0", f.Label, f.RMSE)
		}
	}
	if got.Fits[0].Label != LabelConstant {
		t.Errorf("equal RMSEs must keep rank order, first fit = %q", got.Fits[0].Label)
	}
}

func TestClassify_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		samples     []Sample
		wantDropped int
	}{
		{name: "nil", samples: nil},
		{name: "empty", samples: []Sample{}},
		{name: "single", samples: []Sample{{N: 100, Time: 1}}},
		{name: "one valid after drop", samples: []Sample{{N: 100, Time: 1}, {N: 200, Time: math.NaN()}}, wantDropped: 1},
		{name: "all invalid", samples: []Sample{{N: 100, Time: -1}, {N: 200, Time: math.Inf(1)}}, wantDropped: 2},
	}

	c := NewClassifier()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tt.samples)
			if got.BestFit != LabelUndetermined {
				t.Errorf("BestFit = %q, want %q", got.BestFit, LabelUndetermined)
			}
			if got.Confidence != 0 {
				t.Errorf("Confidence = %d, want 0", got.Confidence)
			}
			if got.Fits == nil || len(got.Fits) != 0 {
				t.Errorf("Fits = %v, want empty non-nil", got.Fits)
			}
			if got.Regime != RegimeInsufficient {
				t.Errorf("Regime = %q", got.Regime)
			}
			if got.Dropped != tt.wantDropped {
				t.Errorf("Dropped = %d, want %d", got.Dropped, tt.wantDropped)
			}
			if got.IsDetermined() {
				t.Error("IsDetermined() = true for degenerate result")
			}
		})
	}
}

func TestClassify_DropsInvalidMeasurements(t *testing.T) {
	t.Parallel()

	samples := samplesFrom([]int{1000, 2000, 4000, 8000}, func(n float64) float64 { return 0.002*n + 0.1 })
	samples = append(samples, Sample{N: 16000, Time: math.NaN()}, Sample{N: 32000, Time: -3})

	got := NewClassifier().Classify(samples)
	if got.BestFit != LabelLinear {
		t.Errorf("BestFit = %q, want linear", got.BestFit)
	}
	if got.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", got.Dropped)
	}
	if len(got.Samples) != 4 {
		t.Errorf("len(Samples) = %d, want 4", len(got.Samples))
	}
}

func TestClassify_UltraFast(t *testing.T) {
	t.Parallel()

	sizes := []int{10, 100, 1000, 10000}
	tests := []struct {
		name string
		f    func(n float64) float64
		want string
	}{
		{name: "flat", f: func(float64) float64 { return 5e-5 }, want: LabelConstant},
		{name: "flat rising jitter", f: jittered(sizes, []float64{0.98, 0.99, 1.01, 1.02}), want: LabelConstant},
		{name: "flat alternating jitter", f: jittered(sizes, []float64{1.02, 0.98, 1.01, 0.99}), want: LabelConstant},
		{name: "flat falling jitter", f: jittered(sizes, []float64{1.02, 1.01, 0.99, 0.98}), want: LabelConstant},
		{name: "negligible logarithmic growth", f: func(n float64) float64 { return 5e-5 + 1e-7*math.Log(n) }, want: LabelConstant},
		{name: "logarithmic", f: func(n float64) float64 { return 5e-6 * math.Log(n) }, want: LabelLogarithmic},
		{name: "logarithmic with offset", f: func(n float64) float64 { return 2e-5 + 5e-6*math.Log(n) }, want: LabelLogarithmic},
	}

	c := NewClassifier()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(samplesFrom(sizes, tt.f))
			if got.Regime != RegimeUltraFast {
				t.Fatalf("Regime = %q, want ultra-fast", got.Regime)
			}
			if got.BestFit != tt.want {
				t.Errorf("BestFit = %q, want %q", got.BestFit, tt.want)
			}
			if got.Confidence != 95 {
				t.Errorf("Confidence = %d, want 95", got.Confidence)
			}
		})
	}
}

// jittered returns 5e-5 ms scaled by factors[i] at sizes[i].
func jittered(sizes []int, factors []float64) func(n float64) float64 {
	return func(n float64) float64 {
		for i, size := range sizes {
			if float64(size) == n {
				return 5e-5 * factors[i]
			}
		}
		return 5e-5
	}
}

func TestClassify_UltraFastGrowthThreshold(t *testing.T) {
	t.Parallel()

	samples := samplesFrom([]int{10, 100, 1000, 10000}, func(n float64) float64 { return 5e-5 + 1e-7*math.Log(n) })

	th := DefaultThresholds()
	th.UltraFastGrowth = 0
	if got := NewClassifier(WithThresholds(th)).Classify(samples); got.BestFit != LabelLogarithmic {
		t.Errorf("BestFit = %q, want logarithmic without a growth threshold", got.BestFit)
	}

	th.UltraFastGrowth = 0.25
	if got := NewClassifier(WithThresholds(th)).Classify(samples); got.BestFit != LabelConstant {
		t.Errorf("BestFit = %q, want constant below the growth threshold", got.BestFit)
	}
}

func TestClassify_NoiselessLinearHasMinimalRMSE(t *testing.T) {
	t.Parallel()

	sizes := []int{1000, 2000, 4000, 8000, 16000}
	tests := []struct {
		name string
		a, b float64
	}{
		{name: "no offset", a: 0.002, b: 0},
		{name: "small offset", a: 0.002, b: 0.1},
		{name: "large offset", a: 1e-4, b: 5},
		{name: "steep", a: 0.05, b: 1},
	}

	c := NewClassifier()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(samplesFrom(sizes, func(n float64) float64 { return tt.a*n + tt.b }))

			var linear ModelFit
			for _, f := range got.Fits {
				if f.Label == LabelLinear {
					linear = f
				}
			}
			if linear.RMSE > 1e-9 {
				t.Fatalf("linear RMSE = %g, want ~0", linear.RMSE)
			}
			for _, f := range got.Fits {
				if f.Label != LabelLinear && !(f.RMSE > linear.RMSE) {
					t.Errorf("%s RMSE = %g, want strictly above linear's %g", f.Label, f.RMSE, linear.RMSE)
				}
			}
		})
	}
}

func TestClassify_NonPositiveSizes(t *testing.T) {
	t.Parallel()

	samples := samplesFrom([]int{0, 1000, 2000, 4000, 8000}, func(n float64) float64 { return 0.002*n + 0.1 })
	got := NewClassifier().Classify(samples)

	if got.BestFit != LabelLinear {
		t.Errorf("BestFit = %q, want linear", got.BestFit)
	}
	undefined := map[string]bool{}
	for _, f := range got.Fits {
		if f.Undefined {
			undefined[f.Label] = true
		}
	}
	if !undefined[LabelLogarithmic] || !undefined[LabelLinearithmic] || len(undefined) != 2 {
		t.Errorf("undefined fits = %v, want logarithmic and linearithmic", undefined)
	}
	last := got.Fits[len(got.Fits)-2:]
	for _, f := range last {
		if !f.Undefined {
			t.Errorf("undefined fits must sort last, got %+v", got.Fits)
		}
	}
}

func TestClassify_UltraFastNonPositiveSizes(t *testing.T) {
	t.Parallel()

	samples := []Sample{{N: 0, Time: 1e-6}, {N: 10, Time: 2e-6}, {N: 100, Time: 3e-6}}
	got := NewClassifier().Classify(samples)
	if got.BestFit != LabelConstant {
		t.Errorf("BestFit = %q, want constant when logarithmic is undefined", got.BestFit)
	}
}

func TestClassify_OccamPrefersSimpler(t *testing.T) {
	t.Parallel()

	// A bump in the middle: every sloped model beats the flat mean by a
	// margin that only a large tolerance absorbs.
	samples := []Sample{{N: 1, Time: 10}, {N: 2, Time: 10.1}, {N: 3, Time: 10}}

	strict := NewClassifier(WithThresholds(Thresholds{
		OccamTolerance: 0, UltraFastCutoff: 1e-4, UltraFastConfidence: 95,
		FitQualityWeight: 0.7, SeparationWeight: 0.3, Epsilon: 1e-12,
	})).Classify(samples)
	if strict.BestFit == LabelConstant {
		t.Errorf("with zero tolerance the constant model must not be promoted")
	}

	th := DefaultThresholds()
	th.OccamTolerance = 1e6
	lenient := NewClassifier(WithThresholds(th)).Classify(samples)
	if lenient.BestFit != LabelConstant {
		t.Errorf("BestFit = %q, want constant with a large tolerance", lenient.BestFit)
	}
}

func TestClassify_FitsSortedByRMSE(t *testing.T) {
	t.Parallel()

	got := NewClassifier().Classify(samplesFrom([]int{100, 200, 400, 800}, func(n float64) float64 { return 1e-5 * n * n }))
	for i := 1; i < len(got.Fits); i++ {
		if got.Fits[i].RMSE < got.Fits[i-1].RMSE {
			t.Fatalf("fits not sorted: %+v", got.Fits)
		}
	}
	if got.Fits[0].Label != LabelQuadratic {
		t.Errorf("lowest RMSE fit = %q, want quadratic", got.Fits[0].Label)
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	samples := []Sample{{N: 300, Time: 3}, {N: 100, Time: math.NaN()}, {N: 200, Time: 2}}
	NewClassifier().Classify(samples)
	if samples[0].N != 300 || !math.IsNaN(samples[1].Time) || samples[2].N != 200 {
		t.Errorf("input modified: %+v", samples)
	}
}

func TestWithCatalog(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()[:3]
	c := NewClassifier(WithCatalog(catalog))
	catalog[0].Label = "mutated"

	got := c.Classify(samplesFrom([]int{100, 200, 400, 800}, func(n float64) float64 { return 1e-5 * n * n }))
	if len(got.Fits) != 3 {
		t.Fatalf("len(Fits) = %d, want 3", len(got.Fits))
	}
	if _, ok := c.Catalog().Lookup(LabelConstant); !ok {
		t.Error("classifier catalog changed by caller mutation")
	}
	if got.BestFit == LabelQuadratic {
		t.Error("model outside the catalog selected")
	}
}

func TestModelFitPredict(t *testing.T) {
	t.Parallel()

	got := NewClassifier().Classify(samplesFrom([]int{1000, 2000, 4000, 8000}, func(n float64) float64 { return 0.002*n + 0.1 }))
	best, ok := got.Best()
	if !ok {
		t.Fatal("Best() found no fit")
	}
	if p := best.Predict(3000); math.Abs(p-6.1) > 1e-9 {
		t.Errorf("Predict(3000) = %g, want 6.1", p)
	}
	if p := (ModelFit{Label: LabelConstant, Intercept: 2}).Predict(1e9); p != 2 {
		t.Errorf("constant Predict = %g, want 2", p)
	}
	if p := (ModelFit{Label: LabelLogarithmic, Undefined: true, Intercept: 2}).Predict(10); p != 0 {
		t.Errorf("undefined Predict = %g, want 0", p)
	}
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	want := []string{LabelConstant, LabelLogarithmic, LabelLinear, LabelLinearithmic, LabelQuadratic}
	labels := c.Labels()
	for i := range want {
		if labels[i] != want[i] || c[i].Rank != i+1 {
			t.Errorf("catalog[%d] = %s/%d, want %s/%d", i, labels[i], c[i].Rank, want[i], i+1)
		}
	}
	c[0].Label = "changed"
	if DefaultCatalog()[0].Label != LabelConstant {
		t.Error("DefaultCatalog returned shared storage")
	}
}

func TestFitLeastSquares_NoVariance(t *testing.T) {
	t.Parallel()

	slope, intercept := fitLeastSquares([]float64{4, 4, 4}, []float64{1, 2, 3})
	if slope != 0 || intercept != 2 {
		t.Errorf("got slope=%g intercept=%g, want 0 and 2", slope, intercept)
	}
}

func TestResultJSON_UndefinedFitsCarryNoRMSE(t *testing.T) {
	t.Parallel()

	samples := samplesFrom([]int{0, 1000, 2000, 4000, 8000}, func(n float64) float64 { return 0.002*n + 0.1 })
	data, err := json.Marshal(NewClassifier().Classify(samples))
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Fits []map[string]any `json:"fits"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Fits) != len(DefaultCatalog()) {
		t.Fatalf("len(fits) = %d, want %d", len(decoded.Fits), len(DefaultCatalog()))
	}

	last := -1.0
	undefined := 0
	for _, f := range decoded.Fits {
		if f["undefined"] == true {
			undefined++
			if _, ok := f["rmse"]; ok {
				t.Errorf("undefined fit %v carries an rmse", f["label"])
			}
			continue
		}
		if undefined > 0 {
			t.Errorf("defined fit %v follows an undefined one", f["label"])
		}
		rmse, ok := f["rmse"].(float64)
		if !ok {
			t.Fatalf("defined fit %v has no rmse", f["label"])
		}
		if rmse < last {
			t.Errorf("fits not in non-decreasing RMSE order: %v", decoded.Fits)
		}
		last = rmse
	}
	if undefined != 2 {
		t.Errorf("undefined fits = %d, want 2", undefined)
	}
}

func TestClassify_TwoValidSamplesAreClassified(t *testing.T) {
	t.Parallel()

	samples := []Sample{{N: 1000, Time: 1}, {N: 2000, Time: math.NaN()}, {N: 4000, Time: 4}}
	got := NewClassifier().Classify(samples)
	if got.BestFit == LabelUndetermined || got.Regime == RegimeInsufficient {
		t.Errorf("two valid samples should be classified, got %q (%s)", got.BestFit, got.Regime)
	}
	if got.Dropped != 1 || len(got.Samples) != 2 {
		t.Errorf("Dropped = %d, Samples = %v", got.Dropped, got.Samples)
	}
}
