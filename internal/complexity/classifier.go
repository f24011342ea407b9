package complexity

import (
	"math"
	"sort"

	"github.com/agbru/bigocalc/internal/logging"
)

// minSamples is the smallest number of valid samples a fit is attempted on.
const minSamples = 2

// Thresholds holds the tunable constants of the selection policy.
type Thresholds struct {
	// OccamTolerance is the relative RMSE excess within which a simpler
	// model replaces the current best.
	OccamTolerance float64
	// UltraFastCutoff is the mean time, in milliseconds, below which the
	// ultra-fast regime applies.
	UltraFastCutoff float64
	// UltraFastConfidence is the fixed confidence of the ultra-fast regime.
	UltraFastConfidence int
	// UltraFastGrowth is the smallest rise of the logarithmic curve across
	// the sampled sizes, relative to the mean time, for the ultra-fast
	// regime to report logarithmic instead of constant.
	UltraFastGrowth float64
	// FitQualityWeight and SeparationWeight weigh the two confidence terms.
	FitQualityWeight float64
	SeparationWeight float64
	// Epsilon guards relative comparisons against zero denominators.
	Epsilon float64
}

// DefaultThresholds returns the standard selection constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OccamTolerance:      0.15,
		UltraFastCutoff:     1e-4,
		UltraFastConfidence: 95,
		UltraFastGrowth:     0.25,
		FitQualityWeight:    0.7,
		SeparationWeight:    0.3,
		Epsilon:             1e-12,
	}
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithThresholds replaces the selection constants.
func WithThresholds(t Thresholds) Option {
	return func(c *Classifier) { c.thresholds = t }
}

// WithCatalog replaces the model catalog. The catalog is copied.
func WithCatalog(catalog Catalog) Option {
	return func(c *Classifier) {
		c.catalog = make(Catalog, len(catalog))
		copy(c.catalog, catalog)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// Classifier selects the growth class that best explains a sample set.
// It is safe for concurrent use.
type Classifier struct {
	catalog    Catalog
	thresholds Thresholds
	logger     logging.Logger
}

// NewClassifier builds a Classifier over the default catalog.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		catalog:    DefaultCatalog(),
		thresholds: DefaultThresholds(),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the selection constants in use.
func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// Catalog returns a copy of the model catalog.
func (c *Classifier) Catalog() Catalog {
	out := make(Catalog, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// Classify fits every catalog model to the samples and selects one.
//
// Samples with a negative or non-finite time are dropped first. With fewer
// than two valid samples the degenerate result is returned.
func (c *Classifier) Classify(samples []Sample) Result {
	valid, dropped := sanitize(samples)
	if len(valid) < minSamples {
		res := Degenerate()
		res.Samples = valid
		res.Dropped = dropped
		c.logger.Debug("classification skipped",
			logging.Int("valid", len(valid)),
			logging.Int("dropped", dropped))
		return res
	}

	fits := c.fit(valid)
	ordered := sortFits(fits)
	mean := meanTime(valid)

	var (
		best       ModelFit
		confidence int
		regime     Regime
	)
	if mean < c.thresholds.UltraFastCutoff {
		best = c.ultraFast(ordered, valid, mean)
		confidence = c.thresholds.UltraFastConfidence
		regime = RegimeUltraFast
	} else {
		best = c.occam(ordered)
		confidence = c.confidence(best, ordered, mean)
		regime = RegimeStandard
	}

	c.logger.Debug("classification complete",
		logging.String("best_fit", best.Label),
		logging.Int("confidence", confidence),
		logging.String("regime", string(regime)),
		logging.Float64("mean_time_ms", mean),
		logging.Int("samples", len(valid)))

	return Result{
		BestFit:    best.Label,
		Confidence: confidence,
		Regime:     regime,
		Fits:       ordered,
		Samples:    valid,
		Dropped:    dropped,
	}
}

// fit computes one ModelFit per catalog entry, in catalog order.
func (c *Classifier) fit(samples []Sample) []ModelFit {
	nonPositive := false
	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		if s.N <= 0 {
			nonPositive = true
		}
	}

	fits := make([]ModelFit, 0, len(c.catalog))
	x := make([]float64, len(samples))
	predicted := make([]float64, len(samples))
	for _, m := range c.catalog {
		f := ModelFit{Label: m.Label, Rank: m.Rank}
		switch {
		case m.NeedsPositive && nonPositive:
			f.Undefined = true
		case m.IsConstant():
			f.Intercept = meanTime(samples)
			for i := range predicted {
				predicted[i] = f.Intercept
			}
			f.RMSE = rootMeanSquareError(times, predicted)
		default:
			for i, s := range samples {
				x[i] = m.Transform(float64(s.N))
			}
			f.Slope, f.Intercept = fitLeastSquares(x, times)
			for i := range predicted {
				predicted[i] = f.Intercept + f.Slope*x[i]
			}
			f.RMSE = rootMeanSquareError(times, predicted)
		}
		fits = append(fits, f)
	}
	return fits
}

// sortFits orders defined fits by ascending RMSE, ties broken by rank, and
// appends undefined fits in rank order.
func sortFits(fits []ModelFit) []ModelFit {
	out := make([]ModelFit, len(fits))
	copy(out, fits)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Undefined != b.Undefined {
			return !a.Undefined
		}
		if !a.Undefined && a.RMSE != b.RMSE {
			return a.RMSE < b.RMSE
		}
		return a.Rank < b.Rank
	})
	return out
}

func definedFits(ordered []ModelFit) []ModelFit {
	out := make([]ModelFit, 0, len(ordered))
	for _, f := range ordered {
		if !f.Undefined {
			out = append(out, f)
		}
	}
	return out
}

// ultraFast defaults to constant. Logarithmic replaces it only when its
// slope is positive, its RMSE beats constant's by more than OccamTolerance,
// and the fitted curve rises by at least UltraFastGrowth of the mean time
// across the sampled sizes. A fit with a slope always has an RMSE at or
// below the flat mean, so RMSE alone would turn timer jitter into growth.
func (c *Classifier) ultraFast(ordered []ModelFit, samples []Sample, mean float64) ModelFit {
	var constant, logarithmic *ModelFit
	for i := range ordered {
		switch ordered[i].Label {
		case LabelConstant:
			constant = &ordered[i]
		case LabelLogarithmic:
			logarithmic = &ordered[i]
		}
	}
	switch {
	case constant == nil && logarithmic == nil:
		return ordered[0]
	case constant == nil:
		return *logarithmic
	case logarithmic != nil && c.logarithmicGrowth(*logarithmic, *constant, samples, mean):
		return *logarithmic
	default:
		return *constant
	}
}

func (c *Classifier) logarithmicGrowth(logarithmic, constant ModelFit, samples []Sample, mean float64) bool {
	eps := c.thresholds.Epsilon
	if logarithmic.Undefined || logarithmic.Slope <= 0 {
		return false
	}
	gain := (constant.RMSE - logarithmic.RMSE) / math.Max(constant.RMSE, eps)
	if gain <= c.thresholds.OccamTolerance {
		return false
	}

	m, ok := c.catalog.Lookup(LabelLogarithmic)
	if !ok || m.IsConstant() {
		return false
	}
	lo, hi := samples[0].N, samples[0].N
	for _, s := range samples[1:] {
		lo, hi = min(lo, s.N), max(hi, s.N)
	}
	rise := logarithmic.Slope * (m.Transform(float64(hi)) - m.Transform(float64(lo)))
	return rise >= c.thresholds.UltraFastGrowth*math.Max(mean, eps)
}

// occam starts from the lowest-RMSE fit and walks the simpler models in
// ascending rank, promoting any whose RMSE is within tolerance of the
// current best.
func (c *Classifier) occam(ordered []ModelFit) ModelFit {
	defined := definedFits(ordered)
	if len(defined) == 0 {
		return ordered[0]
	}
	best := defined[0]

	byRank := make([]ModelFit, len(defined))
	copy(byRank, defined)
	sort.SliceStable(byRank, func(i, j int) bool { return byRank[i].Rank < byRank[j].Rank })

	for _, cand := range byRank {
		if cand.Rank >= best.Rank {
			continue
		}
		excess := (cand.RMSE - best.RMSE) / math.Max(best.RMSE, c.thresholds.Epsilon)
		if excess < c.thresholds.OccamTolerance {
			best = cand
		}
	}
	return best
}

// confidence combines how well the winner fits with how clearly it beats
// the nearest distinct alternative.
func (c *Classifier) confidence(best ModelFit, ordered []ModelFit, mean float64) int {
	eps := c.thresholds.Epsilon

	denom := 1.0
	if mean > 0 {
		denom = mean
	}
	fitQuality := math.Max(0, 1-2*best.RMSE/denom)

	separation := 0.0
	for _, f := range ordered {
		if f.Undefined || f.Label == best.Label || math.Abs(f.RMSE-best.RMSE) <= eps {
			continue
		}
		separation = clamp01((f.RMSE - best.RMSE) / math.Max(f.RMSE, eps))
		break
	}

	score := 100 * (c.thresholds.FitQualityWeight*fitQuality + c.thresholds.SeparationWeight*separation)
	conf := int(math.Round(score))
	switch {
	case conf < 0:
		return 0
	case conf > 100:
		return 100
	}
	return conf
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
