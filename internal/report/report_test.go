package report

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/kestrel-labs/driftwatch/internal/monitor"
	"github.com/kestrel-labs/driftwatch/internal/runlog"
	"github.com/kestrel-labs/driftwatch/internal/store"
)

func tempStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreReporterPersistsSummaries(t *testing.T) {
	s := tempStore(t)
	if err := s.CreateRun(store.RunRecord{RunID: "run-a"}); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	r := NewStoreReporter(s)
	for i := 0; i < 3; i++ {
		if err := r.RecordObservation(monitor.Observation{RunID: "run-a", PeriodIndex: 0}); err != nil {
			t.Fatalf("RecordObservation: %v", err)
		}
	}

	ok := monitor.PeriodMetrics{PeriodIndex: 0, TargetAccuracy: 0.95, Accuracy: 0.948, Passed: true}
	bad := monitor.PeriodMetrics{PeriodIndex: 1, TargetAccuracy: 0.925, Accuracy: 0.84, Degraded: true}
	if err := r.RecordSummary("run-a", ok); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	if err := r.RecordSummary("run-a", bad); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}

	metrics, err := s.ListPeriodMetrics("run-a")
	if err != nil {
		t.Fatalf("ListPeriodMetrics: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("got %d metrics, want 2", len(metrics))
	}
	if metrics[0] != ok || metrics[1] != bad {
		t.Fatalf("persisted metrics mismatch: %+v", metrics)
	}

	events, err := runlog.ListEvents(s.DB(), "run-a")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Event != runlog.EventPeriodEvaluated {
		t.Fatalf("event 0 is %s, want %s", events[0].Event, runlog.EventPeriodEvaluated)
	}
	if events[1].Event != runlog.EventDegradation {
		t.Fatalf("event 1 is %s, want %s", events[1].Event, runlog.EventDegradation)
	}
}

type countingReporter struct {
	observations int
	summaries    int
	err          error
}

func (c *countingReporter) RecordObservation(monitor.Observation) error {
	c.observations++
	return c.err
}

func (c *countingReporter) RecordSummary(string, monitor.PeriodMetrics) error {
	c.summaries++
	return c.err
}

func TestMultiFansOut(t *testing.T) {
	a := &countingReporter{}
	b := &countingReporter{}
	m := Multi{a, b}

	if err := m.RecordObservation(monitor.Observation{}); err != nil {
		t.Fatalf("RecordObservation: %v", err)
	}
	if err := m.RecordSummary("r", monitor.PeriodMetrics{}); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	if a.observations != 1 || b.observations != 1 || a.summaries != 1 || b.summaries != 1 {
		t.Fatalf("fan-out counts: %+v %+v", a, b)
	}
}

func TestMultiStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	a := &countingReporter{err: boom}
	b := &countingReporter{}
	m := Multi{a, b}

	if err := m.RecordSummary("r", monitor.PeriodMetrics{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if b.summaries != 0 {
		t.Fatal("later reporter must not run after an error")
	}
}
