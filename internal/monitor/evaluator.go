// Package monitor runs the period-by-period degradation check over a
// materialized dataset: a single linear pass, no concurrency, no randomness.
package monitor

import (
	"fmt"

	"github.com/kestrel-labs/driftwatch/internal/config"
	"github.com/kestrel-labs/driftwatch/internal/dataset"
	"github.com/kestrel-labs/driftwatch/internal/metrics"
)

// #region evaluator

// Evaluator applies the thresholds to successive periods and decides whether
// to advance, complete, or halt degraded.
type Evaluator struct {
	thresholds Thresholds
	reporter   Reporter
}

// NewEvaluator creates an evaluator. A nil reporter is replaced by NopReporter.
func NewEvaluator(th Thresholds, r Reporter) *Evaluator {
	if r == nil {
		r = NopReporter{}
	}
	return &Evaluator{thresholds: th, reporter: r}
}

// #endregion evaluator

// #region evaluate-period

// EvaluatePeriod computes one period's metrics and the transition decision.
// prevAccuracy is the accuracy of the previously evaluated period in this run,
// or a negative value when there is none. last reports whether this is the
// final period of the evaluated range.
func (e *Evaluator) EvaluatePeriod(
	runID string,
	period dataset.Period,
	samples []dataset.Sample,
	numClasses int,
	prevAccuracy float64,
	last bool,
) (PeriodMetrics, Decision, error) {
	window := samples[period.Start:period.End]
	labels := make([]int, len(window))
	preds := make([]int, len(window))
	for i, s := range window {
		if s.Label == dataset.UnlabeledClass {
			return PeriodMetrics{}, Decision{}, fmt.Errorf(
				"%w: sample %d in period %d has no materialized label",
				dataset.ErrDataIntegrity, s.RowID, period.Index)
		}
		labels[i] = s.Label
		preds[i] = s.Prediction

		if err := e.reporter.RecordObservation(Observation{
			RunID:       runID,
			PeriodIndex: period.Index,
			RowID:       s.RowID,
			Prediction:  s.Prediction,
			Label:       s.Label,
			Correct:     s.Label == s.Prediction,
		}); err != nil {
			return PeriodMetrics{}, Decision{}, fmt.Errorf("record observation: %w", err)
		}
	}

	sum, err := metrics.Classification(labels, preds, numClasses)
	if err != nil {
		return PeriodMetrics{}, Decision{}, fmt.Errorf("period %d: %w", period.Index, err)
	}

	pm := PeriodMetrics{
		PeriodIndex:    period.Index,
		TargetAccuracy: period.TargetAccuracy,
		Accuracy:       sum.Accuracy,
		Precision:      sum.Precision,
		Recall:         sum.Recall,
		F1:             sum.F1,
		Passed:         sum.Accuracy >= e.thresholds.Accuracy,
	}

	// Absolute floor: strictly below the threshold degrades. Accuracy exactly
	// at the threshold passes.
	if sum.Accuracy < e.thresholds.Accuracy {
		pm.Degraded = true
		return pm, Decision{
			Action: ActionHaltDegraded,
			Reason: fmt.Sprintf("accuracy %.4f below threshold %.4f", sum.Accuracy, e.thresholds.Accuracy),
		}, nil
	}

	// Relative drop against the previous period evaluated in this run.
	if prevAccuracy >= 0 && prevAccuracy-sum.Accuracy > e.thresholds.Degradation {
		pm.Degraded = true
		return pm, Decision{
			Action: ActionHaltDegraded,
			Reason: fmt.Sprintf("accuracy dropped %.4f from previous period, threshold %.4f",
				prevAccuracy-sum.Accuracy, e.thresholds.Degradation),
		}, nil
	}

	if last {
		return pm, Decision{
			Action: ActionComplete,
			Reason: fmt.Sprintf("final period %d within thresholds", period.Index),
		}, nil
	}
	return pm, Decision{
		Action: ActionAdvance,
		Reason: fmt.Sprintf("period %d within thresholds", period.Index),
	}, nil
}

// #endregion evaluate-period

// #region run

// Run evaluates periods [start, end] inclusive, in order, halting on
// degradation. It returns the finalized Run; a terminal status of
// StateDegraded is a normal return, not an error.
func (e *Evaluator) Run(
	runID string,
	samples []dataset.Sample,
	periods []dataset.Period,
	numClasses int,
	start, end int,
) (Run, error) {
	if start < 0 || end >= len(periods) || start > end {
		return Run{}, fmt.Errorf("%w: period range [%d,%d] outside [0,%d]",
			config.ErrInvalid, start, end, len(periods)-1)
	}

	run := Run{
		RunID:         runID,
		StartPeriod:   start,
		EndPeriod:     end,
		Status:        StateRunning,
		TriggerPeriod: -1,
	}

	prevAccuracy := -1.0
	for p := start; p <= end; p++ {
		pm, decision, err := e.EvaluatePeriod(runID, periods[p], samples, numClasses, prevAccuracy, p == end)
		if err != nil {
			return Run{}, err
		}
		run.Periods = append(run.Periods, pm)

		if err := e.reporter.RecordSummary(runID, pm); err != nil {
			return Run{}, fmt.Errorf("record summary: %w", err)
		}

		switch decision.Action {
		case ActionHaltDegraded:
			run.Status = StateDegraded
			run.TriggerPeriod = p
			return run, nil
		case ActionComplete:
			run.Status = StateCompleted
			return run, nil
		}
		prevAccuracy = pm.Accuracy
	}

	// Unreachable: the last iteration always completes or halts.
	run.Status = StateCompleted
	return run, nil
}

// #endregion run
