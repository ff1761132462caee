package dataset

// #region sample

// UnlabeledClass marks a sample whose ground-truth label has not been
// materialized yet.
const UnlabeledClass = -1

// Sample is one scored row: feature values, the model's prediction with its
// probability, and (after corruption) a ground-truth label. Immutable once the
// label is set.
type Sample struct {
	RowID       int
	Features    []float64
	Prediction  int
	Probability float64
	Label       int
}

// #endregion sample

// #region period

// Period is an ordered, contiguous slice [Start, End) of the dataset
// representing one simulated time window.
type Period struct {
	Index          int     `json:"index"`
	Start          int     `json:"start"`
	End            int     `json:"end"`
	TargetAccuracy float64 `json:"target_accuracy"`
}

// Size returns the number of samples in the period.
func (p Period) Size() int {
	return p.End - p.Start
}

// #endregion period

// #region dataset

// Dataset is an in-memory scored dataset with named feature columns.
type Dataset struct {
	FeatureNames []string
	Samples      []Sample
}

// #endregion dataset
