// Package corrupt materializes synthetic ground-truth labels that decay
// linearly in accuracy per period, simulating accelerating model drift.
package corrupt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kestrel-labs/driftwatch/internal/config"
	"github.com/kestrel-labs/driftwatch/internal/dataset"
)

// #region config

// Config holds the corruption plan parameters.
type Config struct {
	BaseAccuracy    float64 // target accuracy of period 0
	DegradationRate float64 // accuracy lost per period index
	Floor           float64 // lower bound on target accuracy
	Seed            int64   // drives flip selection and wrong-class choice
	NumClasses      int
}

// Default mirrors config.Default for the corruption-relevant fields.
func Default() Config {
	c := config.Default()
	return Config{
		BaseAccuracy:    c.BaseAccuracy,
		DegradationRate: c.DegradationRate,
		Floor:           c.AccuracyFloor,
		Seed:            c.Seed,
		NumClasses:      c.NumClasses,
	}
}

// FromConfig extracts the corruption parameters from a pipeline config.
func FromConfig(c config.Config) Config {
	return Config{
		BaseAccuracy:    c.BaseAccuracy,
		DegradationRate: c.DegradationRate,
		Floor:           c.AccuracyFloor,
		Seed:            c.Seed,
		NumClasses:      c.NumClasses,
	}
}

// #endregion config

// #region plan

// TargetAccuracy computes the simulated accuracy for period p:
// max(BaseAccuracy - DegradationRate*p, Floor). Non-increasing in p.
func TargetAccuracy(cfg Config, p int) float64 {
	target := cfg.BaseAccuracy - cfg.DegradationRate*float64(p)
	if target < cfg.Floor {
		return cfg.Floor
	}
	return target
}

// Plan stamps the target accuracy onto each period in place.
func Plan(periods []dataset.Period, cfg Config) {
	for i := range periods {
		periods[i].TargetAccuracy = TargetAccuracy(cfg, periods[i].Index)
	}
}

// #endregion plan

// #region apply

// Apply materializes the corrupted label for every sample covered by the
// periods. Per period, exactly round((1-target)*size) labels are flipped to a
// wrong class; which samples flip, and which wrong class they get, comes from
// a single rand stream seeded with cfg.Seed, so identical inputs and seed
// reproduce identical labels. Samples outside the covered range are untouched.
func Apply(samples []dataset.Sample, periods []dataset.Period, cfg Config) error {
	if cfg.NumClasses < 2 {
		return fmt.Errorf("%w: num_classes must be >= 2, got %d", config.ErrInvalid, cfg.NumClasses)
	}
	if len(periods) > 0 && periods[len(periods)-1].End > len(samples) {
		return fmt.Errorf("%w: periods cover %d samples but only %d loaded",
			config.ErrInvalid, periods[len(periods)-1].End, len(samples))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	for _, p := range periods {
		size := p.Size()
		flips := int(math.Round((1 - p.TargetAccuracy) * float64(size)))
		if flips > size {
			flips = size
		}

		// Seeded shuffle picks which offsets within the period get flipped.
		perm := rng.Perm(size)
		flip := make(map[int]bool, flips)
		for _, off := range perm[:flips] {
			flip[off] = true
		}

		for off := 0; off < size; off++ {
			s := &samples[p.Start+off]
			if flip[off] {
				s.Label = wrongClass(rng, s.Prediction, cfg.NumClasses)
			} else {
				s.Label = s.Prediction
			}
		}
	}
	return nil
}

// wrongClass picks a class different from pred. Binary datasets flip to the
// other class; multiclass draws uniformly among the others.
func wrongClass(rng *rand.Rand, pred, numClasses int) int {
	if numClasses == 2 {
		return 1 - pred
	}
	c := rng.Intn(numClasses - 1)
	if c >= pred {
		c++
	}
	return c
}

// #endregion apply
