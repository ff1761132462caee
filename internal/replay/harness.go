package replay

import (
	"fmt"
	"math"

	"github.com/kestrel-labs/driftwatch/internal/config"
	"github.com/kestrel-labs/driftwatch/internal/corrupt"
	"github.com/kestrel-labs/driftwatch/internal/dataset"
	"github.com/kestrel-labs/driftwatch/internal/monitor"
)

// #region replay

// Run executes the full pipeline (partition, plan, corrupt, evaluate) over
// the fixture's predictions, entirely in-memory with no tracking backend.
func Run(f *Fixture) (monitor.Run, error) {
	cfg, err := f.PipelineConfig()
	if err != nil {
		return monitor.Run{}, err
	}

	samples := make([]dataset.Sample, len(f.Predictions))
	for i, p := range f.Predictions {
		if p < 0 || p >= cfg.NumClasses {
			return monitor.Run{}, fmt.Errorf("%w: prediction %d at index %d outside %d classes",
				config.ErrInvalid, p, i, cfg.NumClasses)
		}
		samples[i] = dataset.Sample{
			RowID:       i,
			Prediction:  p,
			Probability: 1,
			Label:       dataset.UnlabeledClass,
		}
	}

	periods, err := dataset.Partition(len(samples), cfg.BatchSize)
	if err != nil {
		return monitor.Run{}, err
	}

	ccfg := corrupt.FromConfig(cfg)
	corrupt.Plan(periods, ccfg)
	if err := corrupt.Apply(samples, periods, ccfg); err != nil {
		return monitor.Run{}, err
	}

	end := cfg.EndPeriod
	if end == -1 {
		end = len(periods) - 1
	}

	ev := monitor.NewEvaluator(monitor.Thresholds{
		Accuracy:    cfg.AccuracyThreshold,
		Degradation: cfg.DegradationThreshold,
	}, nil)
	return ev.Run("replay", samples, periods, cfg.NumClasses, cfg.StartPeriod, end)
}

// #endregion replay

// #region verify

// Verify compares a run against the fixture's expectations and returns one
// human-readable mismatch per failed check. An empty slice means the replay
// reproduced the expected outcome.
func Verify(f *Fixture, run monitor.Run) []string {
	var mismatches []string

	if f.Expected.Status != "" && string(run.Status) != f.Expected.Status {
		mismatches = append(mismatches,
			fmt.Sprintf("status: expected %s, got %s", f.Expected.Status, run.Status))
	}
	expTrigger := f.Expected.TriggerPeriod
	if f.Expected.Status == string(monitor.StateCompleted) {
		expTrigger = -1
	}
	if run.TriggerPeriod != expTrigger {
		mismatches = append(mismatches,
			fmt.Sprintf("trigger period: expected %d, got %d", expTrigger, run.TriggerPeriod))
	}
	if f.Expected.NumPeriods != 0 && len(run.Periods) != f.Expected.NumPeriods {
		mismatches = append(mismatches,
			fmt.Sprintf("recorded periods: expected %d, got %d", f.Expected.NumPeriods, len(run.Periods)))
	}

	byIndex := make(map[int]monitor.PeriodMetrics, len(run.Periods))
	for _, pm := range run.Periods {
		byIndex[pm.PeriodIndex] = pm
	}
	for _, exp := range f.Expected.Periods {
		pm, ok := byIndex[exp.Index]
		if !ok {
			mismatches = append(mismatches,
				fmt.Sprintf("period %d: expected metrics, none recorded", exp.Index))
			continue
		}
		if pm.Accuracy < exp.MinAccuracy-1e-9 || pm.Accuracy > exp.MaxAccuracy+1e-9 {
			mismatches = append(mismatches,
				fmt.Sprintf("period %d: accuracy %.4f outside [%.4f, %.4f]",
					exp.Index, pm.Accuracy, exp.MinAccuracy, exp.MaxAccuracy))
		}
	}

	// Determinism spot check: replaying the same fixture must reproduce the
	// exact metrics sequence.
	second, err := Run(f)
	if err != nil {
		mismatches = append(mismatches, fmt.Sprintf("determinism re-run failed: %v", err))
		return mismatches
	}
	if len(second.Periods) != len(run.Periods) {
		mismatches = append(mismatches,
			fmt.Sprintf("determinism: re-run recorded %d periods vs %d", len(second.Periods), len(run.Periods)))
		return mismatches
	}
	for i := range run.Periods {
		if math.Abs(run.Periods[i].Accuracy-second.Periods[i].Accuracy) > 0 {
			mismatches = append(mismatches,
				fmt.Sprintf("determinism: period %d accuracy differs across re-runs", run.Periods[i].PeriodIndex))
		}
	}

	return mismatches
}

// #endregion verify
