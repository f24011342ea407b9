package format

import (
	"fmt"
	"strings"
	"time"
)

const (
	// maxETA caps estimates so a stalled run never shows absurd values.
	maxETA = 24 * time.Hour
	// rateSmoothing is the weight of the newest rate sample.
	rateSmoothing = 0.3
)

// ProgressState tracks the completion fraction of several parallel tracks,
// one per analysed candidate.
type ProgressState struct {
	progresses []float64
	numTracks  int
}

// NewProgressState creates a state for n tracks, all at zero.
func NewProgressState(n int) *ProgressState {
	if n < 0 {
		n = 0
	}
	return &ProgressState{progresses: make([]float64, n), numTracks: n}
}

// Update sets the progress of one track. Out-of-range indices are ignored
// and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(p.progresses) {
		return
	}
	p.progresses[index] = clampUnit(value)
}

// CalculateAverage returns the mean progress across tracks.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numTracks == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.progresses {
		sum += v
	}
	return sum / float64(p.numTracks)
}

// ProgressWithETA extends ProgressState with a smoothed completion rate.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates a tracker for n tracks starting now.
func NewProgressWithETA(n int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a track update and returns the average progress and
// the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.startTime).Seconds(); elapsed > 0 && avg > 0 {
		rate := avg / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = rateSmoothing*rate + (1-rateSmoothing)*p.progressRate
		}
	}
	p.lastUpdate = now
	return avg, p.GetETA()
}

// GetETA estimates the remaining time from the smoothed rate. It returns 0
// until a rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// FormatETA renders an ETA compactly ("45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

// ProgressBar renders progress as a bar of the given length.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clampUnit(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA combines a bar, a percentage and an ETA.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clampUnit(progress)*100, FormatETA(eta))
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
