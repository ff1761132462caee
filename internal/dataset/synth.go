package dataset

import "math/rand"

// #region synthesize

// Synthesize generates a scored dataset of n samples for simulation runs that
// have no upstream prediction job. Predictions are drawn uniformly over the
// class range and probabilities over [0.5, 1); labels are left unmaterialized.
// Deterministic under the seed.
func Synthesize(n, numClasses int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{
			RowID:       i,
			Features:    []float64{rng.NormFloat64(), rng.NormFloat64(), rng.Float64()},
			Prediction:  rng.Intn(numClasses),
			Probability: 0.5 + rng.Float64()/2,
			Label:       UnlabeledClass,
		}
	}

	return &Dataset{
		FeatureNames: []string{"f0", "f1", "f2"},
		Samples:      samples,
	}
}

// #endregion synthesize
