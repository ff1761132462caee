// Package report provides monitor.Reporter implementations: structured
// logging, SQLite-backed persistence, and a fan-out composite.
package report

import (
	"fmt"
	"log/slog"

	"github.com/kestrel-labs/driftwatch/internal/monitor"
	"github.com/kestrel-labs/driftwatch/internal/runlog"
	"github.com/kestrel-labs/driftwatch/internal/store"
)

// #region log-reporter

// LogReporter writes tracking records to a slog logger. Per-observation
// records go to Debug so default runs stay readable; period summaries go to
// Info.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a LogReporter. A nil logger uses slog.Default().
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) RecordObservation(obs monitor.Observation) error {
	r.logger.Debug("observation",
		"run_id", obs.RunID,
		"period", obs.PeriodIndex,
		"row_id", obs.RowID,
		"prediction", obs.Prediction,
		"label", obs.Label,
		"correct", obs.Correct,
	)
	return nil
}

func (r *LogReporter) RecordSummary(runID string, pm monitor.PeriodMetrics) error {
	r.logger.Info("period evaluated",
		"run_id", runID,
		"period", pm.PeriodIndex,
		"accuracy", pm.Accuracy,
		"precision", pm.Precision,
		"recall", pm.Recall,
		"f1", pm.F1,
		"target_accuracy", pm.TargetAccuracy,
		"passed", pm.Passed,
		"degraded", pm.Degraded,
	)
	return nil
}

// #endregion log-reporter

// #region store-reporter

// StoreReporter persists period summaries through the store and appends
// run_log events. Observations are counted per period, not stored row-by-row.
type StoreReporter struct {
	store    *store.Store
	observed map[int]int
}

// NewStoreReporter creates a StoreReporter over an open store. The run row
// must already exist.
func NewStoreReporter(s *store.Store) *StoreReporter {
	return &StoreReporter{store: s, observed: make(map[int]int)}
}

func (r *StoreReporter) RecordObservation(obs monitor.Observation) error {
	r.observed[obs.PeriodIndex]++
	return nil
}

func (r *StoreReporter) RecordSummary(runID string, pm monitor.PeriodMetrics) error {
	if err := r.store.AppendPeriodMetrics(runID, pm); err != nil {
		return err
	}
	event := runlog.EventPeriodEvaluated
	if pm.Degraded {
		event = runlog.EventDegradation
	}
	return runlog.LogEvent(r.store.DB(), runlog.Entry{
		RunID:       runID,
		PeriodIndex: pm.PeriodIndex,
		Event:       event,
		Detail: fmt.Sprintf("accuracy=%.4f target=%.4f observations=%d",
			pm.Accuracy, pm.TargetAccuracy, r.observed[pm.PeriodIndex]),
	})
}

// #endregion store-reporter

// #region multi

// Multi fans every record out to all reporters, stopping on the first error.
type Multi []monitor.Reporter

func (m Multi) RecordObservation(obs monitor.Observation) error {
	for _, r := range m {
		if err := r.RecordObservation(obs); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) RecordSummary(runID string, pm monitor.PeriodMetrics) error {
	for _, r := range m {
		if err := r.RecordSummary(runID, pm); err != nil {
			return err
		}
	}
	return nil
}

// #endregion multi
