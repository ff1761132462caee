package dataset

import (
	"errors"
	"path/filepath"
	"testing"
)

func testMetadata() Metadata {
	return Metadata{
		BatchSize:       250,
		NumPeriods:      4,
		CoveredSamples:  1000,
		NumClasses:      2,
		Seed:            42,
		BaseAccuracy:    0.95,
		DegradationRate: 0.025,
		AccuracyFloor:   0.5,
		Periods: []Period{
			{Index: 0, Start: 0, End: 250, TargetAccuracy: 0.95},
			{Index: 1, Start: 250, End: 500, TargetAccuracy: 0.925},
			{Index: 2, Start: 500, End: 750, TargetAccuracy: 0.9},
			{Index: 3, Start: 750, End: 1000, TargetAccuracy: 0.875},
		},
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	if err := WriteMetadata(path, testMetadata()); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}

	got, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if got.NumPeriods != 4 || got.BatchSize != 250 || got.CoveredSamples != 1000 {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if len(got.Periods) != 4 || got.Periods[3].TargetAccuracy != 0.875 {
		t.Fatalf("unexpected periods: %+v", got.Periods)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be stamped")
	}
}

func TestLoadMetadataMissing(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrInputMissing) {
		t.Fatalf("expected ErrInputMissing, got %v", err)
	}
}

func TestLoadMetadataIntegrity(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Metadata)
	}{
		{"period count mismatch", func(m *Metadata) { m.NumPeriods = 5 }},
		{"covered mismatch", func(m *Metadata) { m.CoveredSamples = 999 }},
		{"non-contiguous bounds", func(m *Metadata) { m.Periods[2].Start = 501 }},
		{"bad index", func(m *Metadata) { m.Periods[1].Index = 7 }},
		{"rising target accuracy", func(m *Metadata) { m.Periods[3].TargetAccuracy = 0.99 }},
		{"zero batch", func(m *Metadata) { m.BatchSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := testMetadata()
			tc.mutate(&meta)
			path := filepath.Join(t.TempDir(), "meta.json")
			if err := WriteMetadata(path, meta); err != nil {
				t.Fatalf("WriteMetadata: %v", err)
			}
			if _, err := LoadMetadata(path); !errors.Is(err, ErrDataIntegrity) {
				t.Fatalf("expected ErrDataIntegrity, got %v", err)
			}
		})
	}
}
