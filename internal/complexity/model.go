package complexity

import "math"

// Labels of the catalog models, plus the label used when no classification
// is possible.
const (
	LabelConstant     = "constant"
	LabelLogarithmic  = "logarithmic"
	LabelLinear       = "linear"
	LabelLinearithmic = "linearithmic"
	LabelQuadratic    = "quadratic"
	LabelUndetermined = "undetermined"
)

// Model is one growth-rate class used as a regression model.
type Model struct {
	// Label is the class name reported to callers.
	Label string
	// Rank orders models by simplicity, 1 being the simplest.
	Rank int
	// Transform maps n to the regression covariate. Nil means the model is
	// the flat mean predictor.
	Transform func(n float64) float64
	// NeedsPositive marks transforms that are undefined for n <= 0.
	NeedsPositive bool
}

// Notation returns the Big-O notation of a catalog label. Other labels are
// returned unchanged.
func Notation(label string) string {
	switch label {
	case LabelConstant:
		return "O(1)"
	case LabelLogarithmic:
		return "O(log n)"
	case LabelLinear:
		return "O(n)"
	case LabelLinearithmic:
		return "O(n log n)"
	case LabelQuadratic:
		return "O(n²)"
	}
	return label
}

// IsConstant reports whether the model is the flat mean predictor.
func (m Model) IsConstant() bool { return m.Transform == nil }

// Catalog is an ordered set of models. Classifiers never modify it.
type Catalog []Model

var defaultCatalog = [...]Model{
	{Label: LabelConstant, Rank: 1},
	{Label: LabelLogarithmic, Rank: 2, Transform: math.Log, NeedsPositive: true},
	{Label: LabelLinear, Rank: 3, Transform: func(n float64) float64 { return n }},
	{Label: LabelLinearithmic, Rank: 4, Transform: func(n float64) float64 { return n * math.Log(n) }, NeedsPositive: true},
	{Label: LabelQuadratic, Rank: 5, Transform: func(n float64) float64 { return n * n }},
}

// DefaultCatalog returns the five canonical models in rank order.
// The returned slice is a copy; changing it does not affect other callers.
func DefaultCatalog() Catalog {
	c := make(Catalog, len(defaultCatalog))
	copy(c, defaultCatalog[:])
	return c
}

// Lookup returns the model with the given label.
func (c Catalog) Lookup(label string) (Model, bool) {
	for _, m := range c {
		if m.Label == label {
			return m, true
		}
	}
	return Model{}, false
}

// Labels returns the model labels in catalog order.
func (c Catalog) Labels() []string {
	labels := make([]string, len(c))
	for i, m := range c {
		labels[i] = m.Label
	}
	return labels
}

func lookupDefault(label string) (Model, bool) {
	for _, m := range defaultCatalog {
		if m.Label == label {
			return m, true
		}
	}
	return Model{}, false
}
