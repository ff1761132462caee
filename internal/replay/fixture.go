// Package replay runs monitoring scenarios from JSON fixtures entirely
// in-memory and verifies the outcome, so threshold behavior can be regression
// checked without any files or database.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kestrel-labs/driftwatch/internal/config"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay scenario.
type Fixture struct {
	Description string          `json:"description"`
	Config      FixtureConfig   `json:"config"`
	Predictions []int           `json:"predictions"`
	Expected    FixtureExpected `json:"expected"`
}

// FixtureConfig mirrors config.Config with JSON tags. Zero values fall back
// to the pipeline defaults, except start_period where 0 is already the default.
type FixtureConfig struct {
	BatchSize            int     `json:"batch_size"`
	AccuracyThreshold    float64 `json:"accuracy_threshold"`
	DegradationThreshold float64 `json:"degradation_threshold"`
	BaseAccuracy         float64 `json:"base_accuracy"`
	DegradationRate      float64 `json:"degradation_rate"`
	AccuracyFloor        float64 `json:"accuracy_floor"`
	NumClasses           int     `json:"num_classes"`
	Seed                 int64   `json:"seed"`
	StartPeriod          int     `json:"start_period"`
	EndPeriod            int     `json:"end_period"`
}

// FixtureExpected captures the asserted outcome of the scenario.
type FixtureExpected struct {
	Status        string           `json:"status"`
	TriggerPeriod int              `json:"trigger_period"`
	NumPeriods    int              `json:"num_periods"`
	Periods       []ExpectedPeriod `json:"periods"`
}

// ExpectedPeriod asserts bounds on one period's realized accuracy.
type ExpectedPeriod struct {
	Index       int     `json:"index"`
	MinAccuracy float64 `json:"min_accuracy"`
	MaxAccuracy float64 `json:"max_accuracy"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Predictions) == 0 {
		return nil, fmt.Errorf("fixture %s has no predictions", path)
	}
	return &f, nil
}

// #endregion fixture-loader

// #region config-merge

// PipelineConfig converts the fixture config into a validated pipeline config,
// filling unset fields from the defaults. An absent end_period (JSON zero with
// start_period also zero) means "last period".
func (f *Fixture) PipelineConfig() (config.Config, error) {
	cfg := config.Default()
	fc := f.Config
	if fc.BatchSize != 0 {
		cfg.BatchSize = fc.BatchSize
	}
	if fc.AccuracyThreshold != 0 {
		cfg.AccuracyThreshold = fc.AccuracyThreshold
	}
	if fc.DegradationThreshold != 0 {
		cfg.DegradationThreshold = fc.DegradationThreshold
	}
	if fc.BaseAccuracy != 0 {
		cfg.BaseAccuracy = fc.BaseAccuracy
	}
	if fc.DegradationRate != 0 {
		cfg.DegradationRate = fc.DegradationRate
	}
	if fc.AccuracyFloor != 0 {
		cfg.AccuracyFloor = fc.AccuracyFloor
	}
	if fc.NumClasses != 0 {
		cfg.NumClasses = fc.NumClasses
	}
	if fc.Seed != 0 {
		cfg.Seed = fc.Seed
	}
	cfg.StartPeriod = fc.StartPeriod
	cfg.EndPeriod = fc.EndPeriod
	if fc.EndPeriod == 0 && fc.StartPeriod == 0 {
		cfg.EndPeriod = -1
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// #endregion config-merge
