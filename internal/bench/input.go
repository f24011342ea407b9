package bench

import (
	"strings"

	apperrors "github.com/agbru/bigocalc/internal/errors"
)

// Mode selects how an input size is turned into a candidate argument.
type Mode string

const (
	// ModeSequence passes a fresh []int of length n holding 0..n-1.
	ModeSequence Mode = "sequence"
	// ModeScalar passes the int n itself.
	ModeScalar Mode = "scalar"
)

// Modes lists the supported modes.
func Modes() []Mode { return []Mode{ModeSequence, ModeScalar} }

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSequence:
		return ModeSequence, nil
	case ModeScalar:
		return ModeScalar, nil
	}
	return "", apperrors.ValidationError{
		Field:   "mode",
		Message: "must be one of sequence, scalar (got " + s + ")",
	}
}

// Materialize builds the candidate argument for size n. Sequence inputs are
// allocated on every call so a candidate that mutates its input never sees
// a previous call's changes.
func Materialize(n int, mode Mode) any {
	if mode == ModeScalar {
		return n
	}
	if n < 0 {
		n = 0
	}
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	return seq
}
