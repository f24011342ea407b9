package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/complexity"
	apperrors "github.com/agbru/bigocalc/internal/errors"
)

// Threshold resolution chain (highest priority first):
//   1. CLI flags (--iterations, --pin-thread)
//   2. Environment variables (BIGOCALC_ITERATIONS, BIGOCALC_PIN_THREAD)
//   3. Tuning file (--tuning tuning.yaml)
//   4. Static defaults in bench.DefaultConfig and complexity.DefaultThresholds

// Tuning holds the engine constants a YAML file may override.
//
// Example file:
//
//	bench:
//	  warmup_runs: 50
//	  target_duration: 20ms
//	classifier:
//	  occam_tolerance: 0.1
type Tuning struct {
	Bench      BenchTuning      `yaml:"bench"`
	Classifier ClassifierTuning `yaml:"classifier"`
}

// BenchTuning mirrors bench.Config.
type BenchTuning struct {
	WarmupRuns           int           `yaml:"warmup_runs" validate:"gte=0"`
	CalibrationThreshold time.Duration `yaml:"calibration_threshold" validate:"gt=0"`
	CalibrationCap       int           `yaml:"calibration_cap" validate:"gte=1"`
	TargetDuration       time.Duration `yaml:"target_duration" validate:"gt=0"`
	Iterations           int           `yaml:"iterations" validate:"gte=1"`
	PinThread            bool          `yaml:"pin_thread"`
}

// ClassifierTuning mirrors complexity.Thresholds.
type ClassifierTuning struct {
	OccamTolerance      float64 `yaml:"occam_tolerance" validate:"gte=0"`
	UltraFastCutoff     float64 `yaml:"ultra_fast_cutoff" validate:"gte=0"`
	UltraFastConfidence int     `yaml:"ultra_fast_confidence" validate:"gte=0,lte=100"`
	UltraFastGrowth     float64 `yaml:"ultra_fast_growth" validate:"gte=0"`
	FitQualityWeight    float64 `yaml:"fit_quality_weight" validate:"gte=0,lte=1"`
	SeparationWeight    float64 `yaml:"separation_weight" validate:"gte=0,lte=1"`
	Epsilon             float64 `yaml:"epsilon" validate:"gt=0"`
}

// DefaultTuning returns the built-in engine constants.
func DefaultTuning() Tuning {
	b := bench.DefaultConfig()
	t := complexity.DefaultThresholds()
	return Tuning{
		Bench: BenchTuning{
			WarmupRuns:           b.WarmupRuns,
			CalibrationThreshold: b.CalibrationThreshold,
			CalibrationCap:       b.CalibrationCap,
			TargetDuration:       b.TargetDuration,
			Iterations:           b.Iterations,
			PinThread:            b.PinThread,
		},
		Classifier: ClassifierTuning{
			OccamTolerance:      t.OccamTolerance,
			UltraFastCutoff:     t.UltraFastCutoff,
			UltraFastConfidence: t.UltraFastConfidence,
			UltraFastGrowth:     t.UltraFastGrowth,
			FitQualityWeight:    t.FitQualityWeight,
			SeparationWeight:    t.SeparationWeight,
			Epsilon:             t.Epsilon,
		},
	}
}

// LoadTuning reads a YAML tuning file. Keys absent from the file keep their
// default value. An empty path returns the defaults.
//
// Parameters:
//   - path: The YAML file to read, or "".
//
// Returns:
//   - Tuning: The merged and validated tuning.
//   - error: A ConfigError if the file cannot be read, parsed or validated.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, apperrors.NewConfigError("cannot read tuning file: %v", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML tuning data over the defaults and validates it.
func ParseTuning(data []byte) (Tuning, error) {
	tuning := DefaultTuning()
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return DefaultTuning(), apperrors.NewConfigError("invalid tuning file: %v", err)
	}
	if err := tuning.Validate(); err != nil {
		return DefaultTuning(), err
	}
	return tuning, nil
}

// Validate checks every tuning value against its bounds.
func (t Tuning) Validate() error {
	if err := validate.Struct(t); err != nil {
		return apperrors.NewConfigError("invalid tuning: %s", describe(err))
	}
	if sum := t.Classifier.FitQualityWeight + t.Classifier.SeparationWeight; sum > 1+1e-9 {
		return apperrors.NewConfigError("invalid tuning: confidence weights sum to %g, must not exceed 1", sum)
	}
	return nil
}

// BenchConfig converts the tuning to a bench.Config, letting cfg's explicit
// iteration count and thread pinning take precedence.
func (t Tuning) BenchConfig(cfg AppConfig) bench.Config {
	out := bench.Config{
		WarmupRuns:           t.Bench.WarmupRuns,
		CalibrationThreshold: t.Bench.CalibrationThreshold,
		CalibrationCap:       t.Bench.CalibrationCap,
		TargetDuration:       t.Bench.TargetDuration,
		Iterations:           t.Bench.Iterations,
		PinThread:            t.Bench.PinThread || cfg.PinThread,
	}
	if cfg.Iterations > 0 {
		out.Iterations = cfg.Iterations
	}
	return out
}

// Thresholds converts the tuning to classifier thresholds.
func (t Tuning) Thresholds() complexity.Thresholds {
	return complexity.Thresholds{
		OccamTolerance:      t.Classifier.OccamTolerance,
		UltraFastCutoff:     t.Classifier.UltraFastCutoff,
		UltraFastConfidence: t.Classifier.UltraFastConfidence,
		UltraFastGrowth:     t.Classifier.UltraFastGrowth,
		FitQualityWeight:    t.Classifier.FitQualityWeight,
		SeparationWeight:    t.Classifier.SeparationWeight,
		Epsilon:             t.Classifier.Epsilon,
	}
}
