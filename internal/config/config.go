// Package config defines the application configuration and the resolution
// chain that fills it: command-line flags, BIGOCALC_ environment variables,
// an optional YAML tuning file and finally built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"github.com/agbru/bigocalc/internal/bench"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/sizes"
)

// EnvPrefix is the prefix for all environment variables used by bigocalc.
const EnvPrefix = "BIGOCALC_"

// DefaultConfidenceThreshold is the confidence at or below which a
// classification is treated as low confidence by presenters.
const DefaultConfidenceThreshold = 75

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Candidates is "all" or a comma-separated list of candidate names.
	Candidates string `validate:"required"`
	// Sizes is the size plan (preset name, generator or explicit list).
	Sizes string `validate:"required"`
	// Iterations is the number of timed batches per size; 0 uses the tuning value.
	Iterations int `validate:"gte=0,lte=10000"`
	// Mode restricts candidates to one input kind; empty keeps all.
	Mode string `validate:"omitempty,oneof=sequence scalar"`
	// Timeout bounds a whole run.
	Timeout time.Duration `validate:"gt=0"`
	// ConfidenceThreshold gates the display of low-confidence labels.
	ConfidenceThreshold int `validate:"gte=0,lte=100"`

	Verbose bool
	Quiet   bool
	Reveal  bool
	Chart   bool
	JSON    bool
	NoColor bool
	TUI     bool
	// PinThread overrides the tuning file's pin_thread when set.
	PinThread bool
	// CandidatePlans measures candidates that carry their own size plan
	// with it instead of Sizes. An explicit --sizes or BIGOCALC_SIZES
	// turns it off.
	CandidatePlans bool

	// OutputFile receives the JSON report when non-empty.
	OutputFile string
	// TuningFile is an optional YAML file overriding engine thresholds.
	TuningFile string
	// HistoryPath is the bbolt database storing past analyses; empty disables history.
	HistoryPath string
	// Addr is the listen address of the HTTP server.
	Addr string `validate:"required,hostname_port"`
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Candidates:          "all",
		Sizes:               sizes.DefaultSpec,
		Timeout:             5 * time.Minute,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		Chart:               true,
		Addr:                "127.0.0.1:8080",
	}
}

var validate = validator.New()

// Validate checks the configuration for semantic correctness.
//
// Returns:
//   - error: A ConfigError describing the first invalid setting, or nil.
func (c AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("invalid configuration: %s", describe(err))
	}
	if _, err := sizes.Parse(c.Sizes); err != nil {
		return apperrors.WrapError(err, "invalid size plan %q", c.Sizes)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("--quiet and --tui cannot be combined")
	}
	return nil
}

// InputMode returns the parsed mode filter; empty means no filter.
func (c AppConfig) InputMode() (bench.Mode, error) {
	if strings.TrimSpace(c.Mode) == "" {
		return "", nil
	}
	return bench.ParseMode(c.Mode)
}

// BindFlags registers the analysis flags on fs, storing values into cfg.
// cfg's current values become the flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVarP(&cfg.Candidates, "candidates", "a", cfg.Candidates, `candidates to analyse: "all" or a comma-separated list`)
	fs.StringVarP(&cfg.Sizes, "sizes", "s", cfg.Sizes, fmt.Sprintf("size plan: %s, pow10:A-B, double:START*COUNT, linear:START+STEP*COUNT or a list", strings.Join(sizes.Names(), ", ")))
	fs.IntVarP(&cfg.Iterations, "iterations", "i", cfg.Iterations, "timed batches per size (0 uses the tuning value)")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "only analyse candidates taking this input (sequence or scalar)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "maximum duration of the whole run")
	fs.IntVar(&cfg.ConfidenceThreshold, "confidence-threshold", cfg.ConfidenceThreshold, "confidence at or below which labels are hidden")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "show fits, samples and memory details for every candidate")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "print only the best-fit label of each candidate")
	fs.BoolVar(&cfg.Reveal, "reveal", cfg.Reveal, "show the best-fit label even at low confidence")
	fs.BoolVar(&cfg.Chart, "chart", cfg.Chart, "draw measurements against the fitted curve")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print results as JSON")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "run the interactive dashboard")
	fs.BoolVar(&cfg.PinThread, "pin-thread", cfg.PinThread, "pin measurement to a single OS thread and CPU")
	fs.BoolVar(&cfg.CandidatePlans, "candidate-plans", cfg.CandidatePlans, "measure candidates with their recommended size plan when they have one")
	fs.StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "write the JSON report to this file")
	fs.StringVar(&cfg.TuningFile, "tuning", cfg.TuningFile, "YAML file overriding engine thresholds")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "bbolt database recording every analysis")
}

// BindServerFlags registers the flags used only by the HTTP server.
func BindServerFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
}

// Resolve applies environment overrides for flags not set on fs, then
// validates the result. A size plan chosen on the command line or in the
// environment applies to every candidate unless --candidate-plans is
// given explicitly.
func Resolve(cfg AppConfig, fs *pflag.FlagSet) (AppConfig, error) {
	applyEnvOverrides(&cfg, fs)
	if !isFlagSetAny(fs, "candidate-plans") && (isFlagSetAny(fs, "sizes") || os.Getenv(EnvPrefix+"SIZES") != "") {
		cfg.CandidatePlans = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// describe renders validator errors as "Field: tag" pairs.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
