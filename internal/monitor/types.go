package monitor

// #region state

// State is the evaluator's run state. StateDegraded and StateCompleted are
// terminal; both are successful outcomes of the evaluator itself, since
// degradation is a detected condition, not a failure.
type State string

const (
	StateRunning   State = "running"
	StateDegraded  State = "degraded"
	StateCompleted State = "completed"
)

// #endregion state

// #region thresholds

// Thresholds bound acceptable period accuracy.
type Thresholds struct {
	// Accuracy is the absolute floor; a period strictly below it is degraded.
	Accuracy float64
	// Degradation is the maximum tolerated drop from the previous period's
	// accuracy; a drop strictly greater than it is degraded.
	Degradation float64
}

// #endregion thresholds

// #region period-metrics

// PeriodMetrics is the immutable evaluation record of one period.
type PeriodMetrics struct {
	PeriodIndex    int     `json:"period_index"`
	TargetAccuracy float64 `json:"target_accuracy"`
	Accuracy       float64 `json:"accuracy"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
	Passed         bool    `json:"passed"`
	Degraded       bool    `json:"degraded"`
}

// #endregion period-metrics

// #region run

// Run is an ordered sequence of period evaluations plus the terminal status.
// Periods grows monotonically while the evaluator advances and is finalized
// when the loop halts. TriggerPeriod is -1 unless the run degraded.
type Run struct {
	RunID         string          `json:"run_id"`
	StartPeriod   int             `json:"start_period"`
	EndPeriod     int             `json:"end_period"`
	Periods       []PeriodMetrics `json:"periods"`
	Status        State           `json:"status"`
	TriggerPeriod int             `json:"trigger_period"`
}

// #endregion run

// #region decision

// Decision actions for a single period transition.
const (
	ActionAdvance      = "advance"
	ActionHaltDegraded = "halt_degraded"
	ActionComplete     = "complete"
)

// Decision explains what the evaluator did after one period.
type Decision struct {
	Action string
	Reason string
}

// #endregion decision

// #region reporter

// Observation is one sample-level tracking record.
type Observation struct {
	RunID       string
	PeriodIndex int
	RowID       int
	Prediction  int
	Label       int
	Correct     bool
}

// Reporter receives tracking output from the evaluator. The production
// implementations live in internal/report; the interface is declared here so
// the evaluator's core loop is testable without any tracking backend present.
type Reporter interface {
	// RecordObservation records a single prediction/label observation.
	RecordObservation(obs Observation) error
	// RecordSummary records one period's aggregate metrics.
	RecordSummary(runID string, pm PeriodMetrics) error
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) RecordObservation(Observation) error { return nil }
func (NopReporter) RecordSummary(string, PeriodMetrics) error { return nil }

// #endregion reporter
