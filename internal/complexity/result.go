package complexity

import "encoding/json"

// Regime names the decision path that produced a Result.
type Regime string

const (
	// RegimeStandard selects by RMSE with the Occam tie-break.
	RegimeStandard Regime = "standard"
	// RegimeUltraFast compares only constant and logarithmic, because
	// timings this small are dominated by timer noise.
	RegimeUltraFast Regime = "ultra-fast"
	// RegimeInsufficient marks the degenerate result.
	RegimeInsufficient Regime = "insufficient-data"
)

// ModelFit is the least-squares fit of one catalog model.
type ModelFit struct {
	Label     string  `json:"label"`
	Rank      int     `json:"rank"`
	RMSE      float64 `json:"rmse"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// Undefined is set when the model's transform cannot be evaluated on
	// the sample sizes (n <= 0 for logarithmic models). Such fits carry no
	// error value and never win.
	Undefined bool `json:"undefined,omitempty"`
}

// MarshalJSON leaves rmse, slope and intercept out of undefined fits so a
// consumer never reads a placeholder zero as an error value.
func (f ModelFit) MarshalJSON() ([]byte, error) {
	if !f.Undefined {
		type plain ModelFit
		return json.Marshal(plain(f))
	}
	return json.Marshal(struct {
		Label     string `json:"label"`
		Rank      int    `json:"rank"`
		Undefined bool   `json:"undefined"`
	}{f.Label, f.Rank, true})
}

// Predict evaluates the fitted curve at n using the default catalog
// transform for the fit's label. Labels outside the default catalog
// predict the intercept.
func (f ModelFit) Predict(n float64) float64 {
	if f.Undefined {
		return 0
	}
	m, ok := lookupDefault(f.Label)
	if !ok || m.IsConstant() {
		return f.Intercept
	}
	return f.Intercept + f.Slope*m.Transform(n)
}

// Result is the outcome of one classification.
type Result struct {
	BestFit    string     `json:"bestFit"`
	Confidence int        `json:"confidence"`
	Regime     Regime     `json:"regime"`
	Fits       []ModelFit `json:"fits"`
	Samples    []Sample   `json:"samples"`
	// Dropped counts samples discarded for a negative or non-finite time.
	Dropped int `json:"dropped,omitempty"`
}

// Degenerate returns the result reported when there is too little data to
// classify.
func Degenerate() Result {
	return Result{
		BestFit:    LabelUndetermined,
		Confidence: 0,
		Regime:     RegimeInsufficient,
		Fits:       []ModelFit{},
		Samples:    []Sample{},
	}
}

// IsDetermined reports whether a class was selected.
func (r Result) IsDetermined() bool {
	return r.BestFit != LabelUndetermined && r.BestFit != ""
}

// Best returns the fit of the selected class.
func (r Result) Best() (ModelFit, bool) {
	for _, f := range r.Fits {
		if f.Label == r.BestFit {
			return f, true
		}
	}
	return ModelFit{}, false
}
