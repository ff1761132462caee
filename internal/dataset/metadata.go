package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// #region metadata

// Metadata is the companion file for a materialized dataset: period boundaries,
// the corruption plan that produced the labels, and the covered sample count
// (trailing remainder samples past NumPeriods*BatchSize were dropped at
// partition time).
type Metadata struct {
	BatchSize       int       `json:"batch_size"`
	NumPeriods      int       `json:"num_periods"`
	CoveredSamples  int       `json:"covered_samples"`
	NumClasses      int       `json:"num_classes"`
	Seed            int64     `json:"seed"`
	BaseAccuracy    float64   `json:"base_accuracy"`
	DegradationRate float64   `json:"degradation_rate"`
	AccuracyFloor   float64   `json:"accuracy_floor"`
	Periods         []Period  `json:"periods"`
	CreatedAt       time.Time `json:"created_at"`
}

// #endregion metadata

// #region io

// WriteMetadata writes the companion metadata file as indented JSON.
func WriteMetadata(path string, meta Metadata) error {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata %s: %w", path, err)
	}
	return nil
}

// LoadMetadata reads and sanity-checks a metadata file.
func LoadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, fmt.Errorf("%w: metadata file expected at %s", ErrInputMissing, path)
		}
		return Metadata{}, fmt.Errorf("read metadata %s: %w", path, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: parse metadata %s: %v", ErrDataIntegrity, path, err)
	}
	if err := checkMetadata(meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: metadata %s: %v", ErrDataIntegrity, path, err)
	}
	return meta, nil
}

func checkMetadata(meta Metadata) error {
	if meta.BatchSize <= 0 {
		return fmt.Errorf("batch_size %d", meta.BatchSize)
	}
	if len(meta.Periods) != meta.NumPeriods {
		return fmt.Errorf("num_periods %d does not match %d period entries", meta.NumPeriods, len(meta.Periods))
	}
	if meta.CoveredSamples != meta.NumPeriods*meta.BatchSize {
		return fmt.Errorf("covered_samples %d does not equal num_periods*batch_size %d",
			meta.CoveredSamples, meta.NumPeriods*meta.BatchSize)
	}
	for i, p := range meta.Periods {
		if p.Index != i {
			return fmt.Errorf("period %d has index %d", i, p.Index)
		}
		if p.Start != i*meta.BatchSize || p.End != (i+1)*meta.BatchSize {
			return fmt.Errorf("period %d bounds [%d,%d) are not contiguous", i, p.Start, p.End)
		}
		if i > 0 && p.TargetAccuracy > meta.Periods[i-1].TargetAccuracy {
			return fmt.Errorf("period %d target accuracy %g rises above period %d", i, p.TargetAccuracy, i-1)
		}
	}
	return nil
}

// #endregion io
