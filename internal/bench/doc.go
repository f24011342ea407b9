// Package bench measures the mean per-call execution time of a candidate
// function across a list of input sizes.
//
// Each size goes through calibration, which picks a batch size large enough
// for the clock to resolve, followed by a fixed number of timed batches.
// Timings are reported in milliseconds.
package bench
