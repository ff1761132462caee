package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// #region errors

// ErrInvalid marks a configuration error. Callers check with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// #endregion errors

// #region config

// Config holds every tunable of the monitoring pipeline. There are no
// process-wide defaults beyond Default(); a Config value is passed explicitly
// into each component.
type Config struct {
	// BatchSize is the number of samples per period.
	BatchSize int `yaml:"batch_size"`

	// AccuracyThreshold is the floor below which (strictly) a period is degraded.
	AccuracyThreshold float64 `yaml:"accuracy_threshold"`

	// DegradationThreshold is the maximum tolerated accuracy drop from the
	// previous period. A drop strictly greater than this is degraded.
	DegradationThreshold float64 `yaml:"degradation_threshold"`

	// BaseAccuracy is the simulated accuracy of period 0.
	BaseAccuracy float64 `yaml:"base_accuracy"`

	// DegradationRate is the per-period decay of the target accuracy.
	DegradationRate float64 `yaml:"degradation_rate"`

	// AccuracyFloor bounds the target accuracy from below so corruption never
	// degenerates into mostly-wrong labels.
	AccuracyFloor float64 `yaml:"accuracy_floor"`

	// NumClasses is the number of distinct class labels in the dataset.
	NumClasses int `yaml:"num_classes"`

	// Seed drives every random choice in the pipeline. Same seed, same inputs,
	// same outputs.
	Seed int64 `yaml:"seed"`

	// StartPeriod and EndPeriod bound the evaluated range, inclusive.
	// EndPeriod -1 means the last period.
	StartPeriod int `yaml:"start_period"`
	EndPeriod   int `yaml:"end_period"`

	// Separator is the dataset CSV field separator.
	Separator string `yaml:"separator"`
}

// Default returns the documented defaults for a monitoring run.
func Default() Config {
	return Config{
		BatchSize:            250,
		AccuracyThreshold:    0.85,
		DegradationThreshold: 0.10,
		BaseAccuracy:         0.95,
		DegradationRate:      0.025,
		AccuracyFloor:        0.5,
		NumClasses:           2,
		Seed:                 42,
		StartPeriod:          0,
		EndPeriod:            -1,
		Separator:            ";",
	}
}

// #endregion config

// #region load

// Load reads a YAML file and overlays it on Default(). The returned config is
// already validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// #endregion load

// #region validate

// Validate rejects impossible settings before any partial run is attempted.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be > 0, got %d", ErrInvalid, c.BatchSize)
	}
	if c.AccuracyThreshold < 0 || c.AccuracyThreshold > 1 {
		return fmt.Errorf("%w: accuracy_threshold must be in [0,1], got %g", ErrInvalid, c.AccuracyThreshold)
	}
	if c.DegradationThreshold < 0 || c.DegradationThreshold > 1 {
		return fmt.Errorf("%w: degradation_threshold must be in [0,1], got %g", ErrInvalid, c.DegradationThreshold)
	}
	if c.BaseAccuracy <= 0 || c.BaseAccuracy > 1 {
		return fmt.Errorf("%w: base_accuracy must be in (0,1], got %g", ErrInvalid, c.BaseAccuracy)
	}
	if c.DegradationRate < 0 {
		return fmt.Errorf("%w: degradation_rate must be >= 0, got %g", ErrInvalid, c.DegradationRate)
	}
	if c.AccuracyFloor < 0 || c.AccuracyFloor > c.BaseAccuracy {
		return fmt.Errorf("%w: accuracy_floor must be in [0, base_accuracy], got %g", ErrInvalid, c.AccuracyFloor)
	}
	if c.NumClasses < 2 {
		return fmt.Errorf("%w: num_classes must be >= 2, got %d", ErrInvalid, c.NumClasses)
	}
	if c.StartPeriod < 0 {
		return fmt.Errorf("%w: start_period must be >= 0, got %d", ErrInvalid, c.StartPeriod)
	}
	if c.EndPeriod < -1 {
		return fmt.Errorf("%w: end_period must be >= -1, got %d", ErrInvalid, c.EndPeriod)
	}
	if c.EndPeriod != -1 && c.EndPeriod < c.StartPeriod {
		return fmt.Errorf("%w: end_period %d precedes start_period %d", ErrInvalid, c.EndPeriod, c.StartPeriod)
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("%w: separator must be a single rune, got %q", ErrInvalid, c.Separator)
	}
	return nil
}

// SeparatorRune returns the CSV separator as a rune. Validate must have passed.
func (c Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}

// #endregion validate
