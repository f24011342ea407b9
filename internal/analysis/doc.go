// Package analysis is the entry point of the estimation engine: it
// benchmarks a candidate over a size plan and classifies the timings.
package analysis
