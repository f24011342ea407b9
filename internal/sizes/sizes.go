// Package sizes builds the list of input sizes an analysis measures.
//
// A plan is written either as an explicit comma-separated list
// ("100,200,400") or as a preset:
//
//	pow10:A-B                 10^A, 10^(A+1), ..., 10^B
//	double:START*COUNT        START, 2*START, 4*START, ... (COUNT sizes)
//	linear:START+STEP*COUNT   START, START+STEP, ... (COUNT sizes)
//	quick | standard | super  named presets
package sizes

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/agbru/bigocalc/internal/errors"
)

const (
	// MaxPow10 is the largest exponent accepted by pow10 plans.
	MaxPow10 = 9
	// MaxCount bounds the number of sizes a preset may generate.
	MaxCount = 64
	// MaxSize is the largest size any plan may contain.
	MaxSize = 1_000_000_000

	// DefaultSpec is the plan used when none is given.
	DefaultSpec = "standard"
)

var named = map[string][]int{
	"quick":    {100, 1_000, 10_000},
	"standard": {1_000, 2_000, 4_000, 8_000, 16_000},
	// Half-decade steps from 1e3 to 1e6 for high-precision runs.
	"super": {1_000, 3_162, 10_000, 31_623, 100_000, 316_228, 1_000_000},
}

// Names lists the named presets.
func Names() []string { return []string{"quick", "standard", "super"} }

// Plan is a parsed, validated size plan.
type Plan struct {
	Spec  string
	sizes []int
}

// Sizes returns a copy of the plan's sizes in ascending order.
func (p Plan) Sizes() []int {
	out := make([]int, len(p.sizes))
	copy(out, p.sizes)
	return out
}

// Len returns the number of sizes.
func (p Plan) Len() int { return len(p.sizes) }

// Fingerprint identifies the plan's sizes.
func (p Plan) Fingerprint() uint64 { return Fingerprint(p.sizes) }

func (p Plan) String() string { return p.Spec }

// FromSizes wraps an explicit list after validating it.
func FromSizes(sizes []int) (Plan, error) {
	if err := Validate(sizes); err != nil {
		return Plan{}, err
	}
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	cp := make([]int, len(sizes))
	copy(cp, sizes)
	return Plan{Spec: strings.Join(parts, ","), sizes: cp}, nil
}

// Parse converts a plan description into a Plan.
func Parse(spec string) (Plan, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = DefaultSpec
	}

	var (
		sizes []int
		err   error
	)
	if preset, ok := named[strings.ToLower(spec)]; ok {
		sizes = append([]int(nil), preset...)
	} else if kind, args, found := strings.Cut(spec, ":"); found {
		switch strings.ToLower(kind) {
		case "pow10":
			sizes, err = parsePow10(args)
		case "double":
			sizes, err = parseDouble(args)
		case "linear":
			sizes, err = parseLinear(args)
		default:
			err = invalid("unknown preset %q (want pow10, double, linear, %s)", kind, strings.Join(Names(), ", "))
		}
	} else {
		sizes, err = parseList(spec)
	}
	if err != nil {
		return Plan{}, err
	}
	if err := Validate(sizes); err != nil {
		return Plan{}, err
	}
	return Plan{Spec: spec, sizes: sizes}, nil
}

// Validate checks that sizes is non-empty, positive, strictly ascending and
// within MaxSize.
func Validate(sizes []int) error {
	if len(sizes) == 0 {
		return invalid("at least one size is required")
	}
	for i, n := range sizes {
		if n <= 0 {
			return invalid("size %d must be positive", n)
		}
		if n > MaxSize {
			return invalid("size %d exceeds the maximum of %d", n, MaxSize)
		}
		if i > 0 && n <= sizes[i-1] {
			return invalid("sizes must be strictly ascending (%d follows %d)", n, sizes[i-1])
		}
	}
	return nil
}

// Fingerprint hashes a size list. Equal lists give equal fingerprints.
func Fingerprint(sizes []int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, n := range sizes {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func parsePow10(args string) ([]int, error) {
	lo, hi, ok := strings.Cut(args, "-")
	if !ok {
		return nil, invalid("pow10 expects A-B, got %q", args)
	}
	a, err := atoi("pow10 start", lo)
	if err != nil {
		return nil, err
	}
	b, err := atoi("pow10 end", hi)
	if err != nil {
		return nil, err
	}
	if a < 0 || b > MaxPow10 || a > b {
		return nil, invalid("pow10 exponents must satisfy 0 <= A <= B <= %d", MaxPow10)
	}
	sizes := make([]int, 0, b-a+1)
	for e := a; e <= b; e++ {
		sizes = append(sizes, int(math.Pow10(e)))
	}
	return sizes, nil
}

func parseDouble(args string) ([]int, error) {
	s, c, ok := strings.Cut(args, "*")
	if !ok {
		return nil, invalid("double expects START*COUNT, got %q", args)
	}
	start, err := atoi("double start", s)
	if err != nil {
		return nil, err
	}
	count, err := parseCount(c)
	if err != nil {
		return nil, err
	}
	sizes := make([]int, 0, count)
	for n := start; len(sizes) < count; n *= 2 {
		if n > MaxSize || n <= 0 {
			return nil, invalid("double:%s exceeds the maximum size %d", args, MaxSize)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func parseLinear(args string) ([]int, error) {
	s, rest, ok := strings.Cut(args, "+")
	if !ok {
		return nil, invalid("linear expects START+STEP*COUNT, got %q", args)
	}
	st, c, ok := strings.Cut(rest, "*")
	if !ok {
		return nil, invalid("linear expects START+STEP*COUNT, got %q", args)
	}
	start, err := atoi("linear start", s)
	if err != nil {
		return nil, err
	}
	step, err := atoi("linear step", st)
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, invalid("linear step must be positive")
	}
	count, err := parseCount(c)
	if err != nil {
		return nil, err
	}
	if start > MaxSize-step*(count-1) {
		return nil, invalid("linear:%s exceeds the maximum size %d", args, MaxSize)
	}
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = start + i*step
	}
	return sizes, nil
}

func parseList(spec string) ([]int, error) {
	fields := strings.Split(spec, ",")
	sizes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := atoi("size", f)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func parseCount(s string) (int, error) {
	count, err := atoi("count", s)
	if err != nil {
		return 0, err
	}
	if count < 1 || count > MaxCount {
		return 0, invalid("count must be between 1 and %d", MaxCount)
	}
	return count, nil
}

func atoi(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if err != nil {
		return 0, invalid("%s %q is not an integer", what, strings.TrimSpace(s))
	}
	return n, nil
}

func invalid(format string, a ...any) error {
	return apperrors.ValidationError{Field: "sizes", Message: fmt.Sprintf(format, a...)}
}
