// Package metrics computes classification quality measures for one period's
// (label, prediction) pairs.
package metrics

import "fmt"

// #region summary

// Summary holds the standard classification metrics for one batch of pairs.
// Precision, recall and F1 are macro-averaged over classes; classes that never
// appear in either column contribute zero to the average.
type Summary struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// #endregion summary

// #region classification

// Classification computes a Summary over parallel label/prediction slices.
func Classification(labels, preds []int, numClasses int) (Summary, error) {
	if len(labels) != len(preds) {
		return Summary{}, fmt.Errorf("length mismatch: %d labels vs %d predictions", len(labels), len(preds))
	}
	if len(labels) == 0 {
		return Summary{}, fmt.Errorf("empty input")
	}
	if numClasses < 2 {
		return Summary{}, fmt.Errorf("num_classes must be >= 2, got %d", numClasses)
	}

	// Per-class confusion counts.
	tp := make([]int, numClasses)
	fp := make([]int, numClasses)
	fn := make([]int, numClasses)

	correct := 0
	for i := range labels {
		l, p := labels[i], preds[i]
		if l < 0 || l >= numClasses {
			return Summary{}, fmt.Errorf("label class %d out of range at index %d", l, i)
		}
		if p < 0 || p >= numClasses {
			return Summary{}, fmt.Errorf("prediction class %d out of range at index %d", p, i)
		}
		if l == p {
			correct++
			tp[l]++
		} else {
			fp[p]++
			fn[l]++
		}
	}

	var precSum, recSum, f1Sum float64
	for c := 0; c < numClasses; c++ {
		var prec, rec float64
		if tp[c]+fp[c] > 0 {
			prec = float64(tp[c]) / float64(tp[c]+fp[c])
		}
		if tp[c]+fn[c] > 0 {
			rec = float64(tp[c]) / float64(tp[c]+fn[c])
		}
		precSum += prec
		recSum += rec
		if prec+rec > 0 {
			f1Sum += 2 * prec * rec / (prec + rec)
		}
	}

	n := float64(numClasses)
	return Summary{
		Accuracy:  float64(correct) / float64(len(labels)),
		Precision: precSum / n,
		Recall:    recSum / n,
		F1:        f1Sum / n,
		Support:   len(labels),
	}, nil
}

// #endregion classification
