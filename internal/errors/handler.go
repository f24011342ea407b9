package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil ColorProvider prints without colors.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleAnalysisError prints a diagnostic for err and maps it to an exit code.
//
// Parameters:
//   - err: The error returned by an analysis (nil means success).
//   - duration: Time spent before the failure; printed when non-zero.
//   - out: The writer for the diagnostic.
//   - colors: Color provider, may be nil.
//
// Returns:
//   - int: The exit code matching the error class.
func HandleAnalysisError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration.Round(time.Millisecond))
	}

	var (
		candidateErr  CandidateError
		configErr     ConfigError
		validationErr ValidationError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Timeout%s%s. The analysis did not finish in time.\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s%s.\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	case errors.As(err, &candidateErr):
		fmt.Fprintf(out, "%sStatus: Candidate failed during %s at n=%d%s: %v%s\n",
			colors.Red(), candidateErr.Phase, candidateErr.N, suffix, candidateErr.Cause, colors.Reset())
		return ExitErrorGeneric
	default:
		fmt.Fprintf(out, "%sStatus: Failure%s. Unexpected error: %v%s\n", colors.Red(), suffix, err, colors.Reset())
		return ExitErrorGeneric
	}
}
