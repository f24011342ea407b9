//go:generate mockgen -source=clock.go -destination=mocks/mock_clock.go -package=mocks

package bench

import "time"

// Clock is the monotonic time source used for every measurement.
type Clock interface {
	// Now returns the current time. Successive readings must not go
	// backwards.
	Now() time.Time
}

// SystemClock reads the wall clock, whose readings carry Go's monotonic
// component.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
