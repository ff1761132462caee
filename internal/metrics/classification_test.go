package metrics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassificationPerfect(t *testing.T) {
	labels := []int{0, 1, 0, 1}
	sum, err := Classification(labels, labels, 2)
	if err != nil {
		t.Fatalf("Classification: %v", err)
	}
	if sum.Accuracy != 1 || sum.Precision != 1 || sum.Recall != 1 || sum.F1 != 1 {
		t.Fatalf("perfect predictions should score 1: %+v", sum)
	}
	if sum.Support != 4 {
		t.Fatalf("support %d, want 4", sum.Support)
	}
}

func TestClassificationKnownConfusion(t *testing.T) {
	// Class 1: tp=2 fp=1 fn=1; class 0: tp=2 fp=1 fn=1.
	labels := []int{1, 1, 0, 0, 1, 0}
	preds := []int{1, 0, 0, 1, 1, 0}

	sum, err := Classification(labels, preds, 2)
	if err != nil {
		t.Fatalf("Classification: %v", err)
	}
	if !almostEqual(sum.Accuracy, 4.0/6.0) {
		t.Fatalf("accuracy %g, want %g", sum.Accuracy, 4.0/6.0)
	}
	if !almostEqual(sum.Precision, 2.0/3.0) {
		t.Fatalf("precision %g, want %g", sum.Precision, 2.0/3.0)
	}
	if !almostEqual(sum.Recall, 2.0/3.0) {
		t.Fatalf("recall %g, want %g", sum.Recall, 2.0/3.0)
	}
	if !almostEqual(sum.F1, 2.0/3.0) {
		t.Fatalf("f1 %g, want %g", sum.F1, 2.0/3.0)
	}
}

func TestClassificationAbsentClassContributesZero(t *testing.T) {
	// Class 2 never appears in labels or predictions.
	labels := []int{0, 1, 0, 1}
	preds := []int{0, 1, 1, 1}

	sum, err := Classification(labels, preds, 3)
	if err != nil {
		t.Fatalf("Classification: %v", err)
	}
	// Class 0: tp=1 fp=0 fn=1 → prec 1, rec 0.5, f1 2/3.
	// Class 1: tp=2 fp=1 fn=0 → prec 2/3, rec 1, f1 0.8.
	// Class 2: all zero.
	if !almostEqual(sum.Precision, (1.0+2.0/3.0)/3.0) {
		t.Fatalf("precision %g", sum.Precision)
	}
	if !almostEqual(sum.Recall, (0.5+1.0)/3.0) {
		t.Fatalf("recall %g", sum.Recall)
	}
	if !almostEqual(sum.F1, (2.0/3.0+0.8)/3.0) {
		t.Fatalf("f1 %g", sum.F1)
	}
}

func TestClassificationErrors(t *testing.T) {
	if _, err := Classification([]int{0}, []int{0, 1}, 2); err == nil {
		t.Fatal("expected error on length mismatch")
	}
	if _, err := Classification(nil, nil, 2); err == nil {
		t.Fatal("expected error on empty input")
	}
	if _, err := Classification([]int{0}, []int{0}, 1); err == nil {
		t.Fatal("expected error on single class")
	}
	if _, err := Classification([]int{5}, []int{0}, 2); err == nil {
		t.Fatal("expected error on out-of-range label")
	}
	if _, err := Classification([]int{0}, []int{-1}, 2); err == nil {
		t.Fatal("expected error on out-of-range prediction")
	}
}
