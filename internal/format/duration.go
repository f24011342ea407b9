package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatMillis renders a per-call time given in milliseconds with a unit
// suited to its magnitude.
func FormatMillis(ms float64) string {
	switch {
	case ms <= 0:
		return "0 ns"
	case ms < 1e-3:
		return fmt.Sprintf("%.1f ns", ms*1e6)
	case ms < 1:
		return fmt.Sprintf("%.2f µs", ms*1e3)
	case ms < 1000:
		return fmt.Sprintf("%.3f ms", ms)
	}
	return fmt.Sprintf("%.3f s", ms/1000)
}
