package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kestrel-labs/driftwatch/internal/monitor"
)

func completedFixture() *Fixture {
	preds := make([]int, 1000)
	for i := range preds {
		preds[i] = i % 2
	}
	return &Fixture{
		Description: "four periods of 250 stay above the threshold",
		Config:      FixtureConfig{BatchSize: 250},
		Predictions: preds,
		Expected: FixtureExpected{
			Status:     string(monitor.StateCompleted),
			NumPeriods: 4,
			Periods: []ExpectedPeriod{
				{Index: 0, MinAccuracy: 0.94, MaxAccuracy: 0.96},
				{Index: 3, MinAccuracy: 0.87, MaxAccuracy: 0.88},
			},
		},
	}
}

func degradedFixture() *Fixture {
	preds := make([]int, 1000)
	for i := range preds {
		preds[i] = i % 2
	}
	return &Fixture{
		Description: "periods of 50 decay through the threshold at period 4",
		Config:      FixtureConfig{BatchSize: 50},
		Predictions: preds,
		Expected: FixtureExpected{
			Status:        string(monitor.StateDegraded),
			TriggerPeriod: 4,
			NumPeriods:    5,
		},
	}
}

func TestRunCompletedFixture(t *testing.T) {
	f := completedFixture()
	run, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != monitor.StateCompleted {
		t.Fatalf("status %s, want completed", run.Status)
	}
	if mismatches := Verify(f, run); len(mismatches) != 0 {
		t.Fatalf("unexpected mismatches: %v", mismatches)
	}
}

func TestRunDegradedFixture(t *testing.T) {
	f := degradedFixture()
	run, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != monitor.StateDegraded {
		t.Fatalf("status %s, want degraded", run.Status)
	}
	if run.TriggerPeriod != 4 {
		t.Fatalf("trigger %d, want 4", run.TriggerPeriod)
	}
	if mismatches := Verify(f, run); len(mismatches) != 0 {
		t.Fatalf("unexpected mismatches: %v", mismatches)
	}
}

func TestVerifyReportsMismatches(t *testing.T) {
	f := completedFixture()
	run, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	f.Expected.Status = string(monitor.StateDegraded)
	f.Expected.TriggerPeriod = 1
	f.Expected.NumPeriods = 2
	mismatches := Verify(f, run)
	if len(mismatches) != 3 {
		t.Fatalf("expected 3 mismatches, got %d: %v", len(mismatches), mismatches)
	}
	if !strings.Contains(mismatches[0], "status") {
		t.Fatalf("first mismatch should name the status: %q", mismatches[0])
	}
}

func TestRunRejectsOutOfRangePrediction(t *testing.T) {
	f := completedFixture()
	f.Predictions[17] = 9
	if _, err := Run(f); err == nil {
		t.Fatal("expected error for prediction outside the class set")
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	body := `{
		"description": "tiny",
		"config": {"batch_size": 2, "num_classes": 2},
		"predictions": [0, 1, 1, 0],
		"expected": {"status": "completed", "num_periods": 2}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.Config.BatchSize != 2 || len(f.Predictions) != 4 {
		t.Fatalf("parsed fixture mismatch: %+v", f)
	}

	cfg, err := f.PipelineConfig()
	if err != nil {
		t.Fatalf("PipelineConfig: %v", err)
	}
	if cfg.BatchSize != 2 {
		t.Fatalf("batch size %d, want 2", cfg.BatchSize)
	}
	if cfg.EndPeriod != -1 {
		t.Fatalf("absent end period must resolve to -1, got %d", cfg.EndPeriod)
	}
	if cfg.AccuracyThreshold == 0 {
		t.Fatal("defaults must fill unset thresholds")
	}
}

func TestLoadFixtureErrors(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"predictions": []}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for fixture without predictions")
	}
}
