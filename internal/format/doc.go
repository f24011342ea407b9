// Package format renders durations, sizes, progress bars and braille charts
// for the CLI and TUI front ends.
package format
