// This file contains environment variable utilities for configuration override.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSetAny reports whether any of the named flags was explicitly set on
// the command line. Aliased flags share one pflag entry, so a single name
// normally suffices.
func isFlagSetAny(fs *pflag.FlagSet, names ...string) bool {
	if fs == nil {
		return false
	}
	for _, name := range names {
		if f := fs.Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the BIGOCALC_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"ITERATIONS", []string{"iterations"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Iterations = parsed
		}
	}},
	{"CONFIDENCE_THRESHOLD", []string{"confidence-threshold"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.ConfidenceThreshold = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"CANDIDATES", []string{"candidates"}, func(c *AppConfig, v string) { c.Candidates = v }},
	{"SIZES", []string{"sizes"}, func(c *AppConfig, v string) { c.Sizes = v }},
	{"MODE", []string{"mode"}, func(c *AppConfig, v string) { c.Mode = v }},
	{"OUTPUT", []string{"output"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"TUNING", []string{"tuning"}, func(c *AppConfig, v string) { c.TuningFile = v }},
	{"HISTORY", []string{"history"}, func(c *AppConfig, v string) { c.HistoryPath = v }},
	{"ADDR", []string{"addr"}, func(c *AppConfig, v string) { c.Addr = v }},

	// Boolean overrides
	{"VERBOSE", []string{"verbose"}, func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"QUIET", []string{"quiet"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"REVEAL", []string{"reveal"}, func(c *AppConfig, v string) {
		c.Reveal = parseBoolEnv(v, c.Reveal)
	}},
	{"CHART", []string{"chart"}, func(c *AppConfig, v string) {
		c.Chart = parseBoolEnv(v, c.Chart)
	}},
	{"JSON", []string{"json"}, func(c *AppConfig, v string) {
		c.JSON = parseBoolEnv(v, c.JSON)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"PIN_THREAD", []string{"pin-thread"}, func(c *AppConfig, v string) {
		c.PinThread = parseBoolEnv(v, c.PinThread)
	}},
	{"CANDIDATE_PLANS", []string{"candidate-plans"}, func(c *AppConfig, v string) {
		c.CandidatePlans = parseBoolEnv(v, c.CandidatePlans)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// NO_COLOR is honoured regardless of prefix, following no-color.org.
func applyEnvOverrides(config *AppConfig, fs *pflag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
	if !isFlagSetAny(fs, "no-color") {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			config.NoColor = true
		}
	}
}
