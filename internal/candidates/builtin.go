package candidates

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/complexity"
)

func builtins() []Candidate {
	return []Candidate{
		{
			Name:        "first-element",
			Description: "Returns the first element of the sequence.",
			Mode:        bench.ModeSequence,
			Expected:    complexity.LabelConstant,
			Fn:          sequence(firstElement),
		},
		{
			Name:        "binary-search",
			Description: "Binary search for the last element of the sorted sequence.",
			Mode:        bench.ModeSequence,
			Expected:    complexity.LabelLogarithmic,
			Plan:        "pow10:1-6",
			Fn:          sequence(binarySearch),
		},
		{
			Name:        "sum",
			Description: "Sums every element of the sequence.",
			Mode:        bench.ModeSequence,
			Expected:    complexity.LabelLinear,
			Fn:          sequence(sum),
		},
		{
			Name:        "sort",
			Description: "Sorts a shuffled copy of the sequence.",
			Mode:        bench.ModeSequence,
			Expected:    complexity.LabelLinearithmic,
			Plan:        "double:1000*9",
			Fn:          sequence(shuffledSort),
		},
		{
			Name:        "pair-count",
			Description: "Counts pairs of elements whose sum is divisible by 7.",
			Mode:        bench.ModeSequence,
			Expected:    complexity.LabelQuadratic,
			Fn:          sequence(pairCount),
		},
		{
			Name:        "count-up",
			Description: "Counts from 0 to n.",
			Mode:        bench.ModeScalar,
			Expected:    complexity.LabelLinear,
			Fn:          scalar(countUp),
		},
		{
			Name:        "halvings",
			Description: "Counts how many times n can be halved.",
			Mode:        bench.ModeScalar,
			Expected:    complexity.LabelLogarithmic,
			Plan:        "pow10:1-9",
			Fn:          scalar(halvings),
		},
		{
			Name:        "grid-walk",
			Description: "Visits every cell of an n by n grid.",
			Mode:        bench.ModeScalar,
			Expected:    complexity.LabelQuadratic,
			Fn:          scalar(gridWalk),
		},
	}
}

func sequence(f func([]int) any) bench.Func {
	return func(input any) (any, error) {
		seq, ok := input.([]int)
		if !ok {
			return nil, fmt.Errorf("expected a sequence input, got %T", input)
		}
		return f(seq), nil
	}
}

func scalar(f func(int) any) bench.Func {
	return func(input any) (any, error) {
		n, ok := input.(int)
		if !ok {
			return nil, fmt.Errorf("expected a scalar input, got %T", input)
		}
		return f(n), nil
	}
}

func firstElement(seq []int) any {
	if len(seq) == 0 {
		return 0
	}
	return seq[0]
}

func binarySearch(seq []int) any {
	if len(seq) == 0 {
		return -1
	}
	return sort.SearchInts(seq, seq[len(seq)-1])
}

func sum(seq []int) any {
	total := 0
	for _, v := range seq {
		total += v
	}
	return total
}

func shuffledSort(seq []int) any {
	cp := slices.Clone(seq)
	rng := rand.New(rand.NewPCG(uint64(len(cp)), 0x9e3779b97f4a7c15))
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	slices.Sort(cp)
	return cp
}

func pairCount(seq []int) any {
	count := 0
	for i := range seq {
		for j := i + 1; j < len(seq); j++ {
			if (seq[i]+seq[j])%7 == 0 {
				count++
			}
		}
	}
	return count
}

func countUp(n int) any {
	acc := 0
	for i := 0; i < n; i++ {
		acc += i & 1
	}
	return acc
}

func halvings(n int) any {
	steps := 0
	for n > 1 {
		n >>= 1
		steps++
	}
	return steps
}

func gridWalk(n int) any {
	acc := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			acc += (i ^ j) & 1
		}
	}
	return acc
}
