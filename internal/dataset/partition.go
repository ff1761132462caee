package dataset

import (
	"fmt"

	"github.com/kestrel-labs/driftwatch/internal/config"
)

// #region partition

// Partition splits n samples into floor(n/batch) contiguous periods of exactly
// batch samples each. Trailing remainder samples are dropped; the caller
// records the covered count in metadata so the drop is visible. Period indices
// are contiguous from 0 and every covered sample belongs to exactly one period.
func Partition(n, batch int) ([]Period, error) {
	if batch <= 0 {
		return nil, fmt.Errorf("%w: batch size must be > 0, got %d", config.ErrInvalid, batch)
	}
	if batch > n {
		return nil, fmt.Errorf("%w: batch size %d exceeds sample count %d", config.ErrInvalid, batch, n)
	}

	count := n / batch
	periods := make([]Period, count)
	for i := 0; i < count; i++ {
		periods[i] = Period{
			Index: i,
			Start: i * batch,
			End:   (i + 1) * batch,
		}
	}
	return periods, nil
}

// #endregion partition
