package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestCSVRoundTrip(t *testing.T) {
	ds := &Dataset{
		FeatureNames: []string{"age", "duration"},
		Samples: []Sample{
			{RowID: 0, Features: []float64{41, 120.5}, Prediction: 1, Probability: 0.91, Label: 1},
			{RowID: 1, Features: []float64{23, 37}, Prediction: 0, Probability: 0.66, Label: 1},
			{RowID: 2, Features: []float64{58, 9.25}, Prediction: 1, Probability: 0.52, Label: UnlabeledClass},
		},
	}

	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	if err := ds.WriteCSV(path, ';'); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := LoadCSV(path, ';')
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if !reflect.DeepEqual(got.FeatureNames, ds.FeatureNames) {
		t.Fatalf("feature names: got %v, want %v", got.FeatureNames, ds.FeatureNames)
	}
	if !reflect.DeepEqual(got.Samples, ds.Samples) {
		t.Fatalf("samples: got %+v, want %+v", got.Samples, ds.Samples)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), ';')
	if !errors.Is(err, ErrInputMissing) {
		t.Fatalf("expected ErrInputMissing, got %v", err)
	}
}

func TestLoadCSVMalformedRows(t *testing.T) {
	header := "row_id;age;prediction;probability;label\n"
	cases := []struct {
		name string
		body string
	}{
		{"non-numeric feature", header + "0;abc;1;0.9;1\n"},
		{"non-numeric prediction", header + "0;41;yes;0.9;1\n"},
		{"probability out of range", header + "0;41;1;1.5;1\n"},
		{"negative prediction", header + "0;41;-1;0.9;1\n"},
		{"short row", header + "0;41;1\n"},
		{"bad label", header + "0;41;1;0.9;-7\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCSV(writeFile(t, tc.body), ';')
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrDataIntegrity) {
				t.Fatalf("expected ErrDataIntegrity, got %v", err)
			}
		})
	}
}

func TestLoadCSVRequiresHeaderAndRows(t *testing.T) {
	_, err := LoadCSV(writeFile(t, "row_id;prediction;probability;label\n"), ';')
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for empty dataset, got %v", err)
	}

	_, err = LoadCSV(writeFile(t, "id;prediction;probability;label\n0;1;0.5;1\n"), ';')
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for bad header, got %v", err)
	}
}

func TestValidateClasses(t *testing.T) {
	ds := &Dataset{Samples: []Sample{
		{RowID: 0, Prediction: 1, Label: 0},
		{RowID: 1, Prediction: 0, Label: UnlabeledClass},
	}}
	if err := ds.ValidateClasses(2); err != nil {
		t.Fatalf("valid classes rejected: %v", err)
	}

	ds.Samples[0].Prediction = 2
	if err := ds.ValidateClasses(2); !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for out-of-range prediction, got %v", err)
	}

	ds.Samples[0].Prediction = 1
	ds.Samples[1].Label = 5
	if err := ds.ValidateClasses(2); !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for out-of-range label, got %v", err)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a := Synthesize(100, 3, 42)
	b := Synthesize(100, 3, 42)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed must synthesize identical datasets")
	}
	for i, s := range a.Samples {
		if s.RowID != i {
			t.Fatalf("sample %d has row_id %d", i, s.RowID)
		}
		if s.Prediction < 0 || s.Prediction >= 3 {
			t.Fatalf("prediction %d out of range", s.Prediction)
		}
		if s.Probability < 0.5 || s.Probability >= 1 {
			t.Fatalf("probability %g outside [0.5,1)", s.Probability)
		}
		if s.Label != UnlabeledClass {
			t.Fatalf("synthesized label must be unmaterialized, got %d", s.Label)
		}
	}
}
