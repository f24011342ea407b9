package complexity

import "math"

// Sample is one timing measurement: the mean per-call time, in
// milliseconds, observed for input size N.
type Sample struct {
	N    int     `json:"n"`
	Time float64 `json:"time"`
}

// Valid reports whether the time is finite and non-negative.
func (s Sample) Valid() bool {
	return !math.IsNaN(s.Time) && !math.IsInf(s.Time, 0) && s.Time >= 0
}

// sanitize keeps the valid samples in order and counts the dropped ones.
func sanitize(samples []Sample) (valid []Sample, dropped int) {
	valid = make([]Sample, 0, len(samples))
	for _, s := range samples {
		if !s.Valid() {
			dropped++
			continue
		}
		valid = append(valid, s)
	}
	return valid, dropped
}

func meanTime(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.Time
	}
	return sum / float64(len(samples))
}
