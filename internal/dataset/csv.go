package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// #region layout

// Column layout: row_id, <feature columns...>, prediction, probability, label.
// The three trailing columns are fixed; everything between row_id and
// prediction is treated as a feature.
const fixedColumns = 4 // row_id + prediction + probability + label

// #endregion layout

// #region load

// LoadCSV reads a scored dataset. A missing file wraps ErrInputMissing with
// the expected path; any malformed row wraps ErrDataIntegrity with the
// 1-based row number and aborts the load.
func LoadCSV(path string, sep rune) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: dataset file expected at %s", ErrInputMissing, path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	// FieldsPerRecord stays at its default so the reader itself enforces a
	// consistent column count after the header.

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: dataset %s has no data rows", ErrDataIntegrity, path)
	}

	header := records[0]
	if len(header) < fixedColumns {
		return nil, fmt.Errorf("%w: header has %d columns, need at least %d", ErrDataIntegrity, len(header), fixedColumns)
	}
	if header[0] != "row_id" {
		return nil, fmt.Errorf("%w: first column must be row_id, got %q", ErrDataIntegrity, header[0])
	}
	featureNames := make([]string, len(header)-fixedColumns)
	copy(featureNames, header[1:len(header)-3])

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		rowNum := i + 2 // 1-based, counting the header
		s, err := parseRow(rec, len(featureNames))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrDataIntegrity, rowNum, err)
		}
		samples = append(samples, s)
	}

	return &Dataset{FeatureNames: featureNames, Samples: samples}, nil
}

func parseRow(rec []string, numFeatures int) (Sample, error) {
	var s Sample
	var err error

	if s.RowID, err = strconv.Atoi(rec[0]); err != nil {
		return Sample{}, fmt.Errorf("row_id %q: %v", rec[0], err)
	}

	s.Features = make([]float64, numFeatures)
	for j := 0; j < numFeatures; j++ {
		if s.Features[j], err = strconv.ParseFloat(rec[1+j], 64); err != nil {
			return Sample{}, fmt.Errorf("feature %d %q: %v", j, rec[1+j], err)
		}
	}

	base := 1 + numFeatures
	if s.Prediction, err = strconv.Atoi(rec[base]); err != nil {
		return Sample{}, fmt.Errorf("prediction %q: %v", rec[base], err)
	}
	if s.Prediction < 0 {
		return Sample{}, fmt.Errorf("prediction %d is negative", s.Prediction)
	}
	if s.Probability, err = strconv.ParseFloat(rec[base+1], 64); err != nil {
		return Sample{}, fmt.Errorf("probability %q: %v", rec[base+1], err)
	}
	if s.Probability < 0 || s.Probability > 1 {
		return Sample{}, fmt.Errorf("probability %g outside [0,1]", s.Probability)
	}
	if s.Label, err = strconv.Atoi(rec[base+2]); err != nil {
		return Sample{}, fmt.Errorf("label %q: %v", rec[base+2], err)
	}
	if s.Label < UnlabeledClass {
		return Sample{}, fmt.Errorf("label %d is invalid", s.Label)
	}

	return s, nil
}

// #endregion load

// #region validate

// ValidateClasses checks every prediction and materialized label against the
// configured class count. Violations wrap ErrDataIntegrity.
func (d *Dataset) ValidateClasses(numClasses int) error {
	for i, s := range d.Samples {
		if s.Prediction >= numClasses {
			return fmt.Errorf("%w: sample %d: prediction class %d out of range [0,%d)", ErrDataIntegrity, i, s.Prediction, numClasses)
		}
		if s.Label != UnlabeledClass && s.Label >= numClasses {
			return fmt.Errorf("%w: sample %d: label class %d out of range [0,%d)", ErrDataIntegrity, i, s.Label, numClasses)
		}
	}
	return nil
}

// #endregion validate

// #region write

// WriteCSV writes the dataset in the canonical column layout.
func (d *Dataset) WriteCSV(path string, sep rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = sep

	header := make([]string, 0, 1+len(d.FeatureNames)+3)
	header = append(header, "row_id")
	header = append(header, d.FeatureNames...)
	header = append(header, "prediction", "probability", "label")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(header))
	for _, s := range d.Samples {
		rec = rec[:0]
		rec = append(rec, strconv.Itoa(s.RowID))
		for _, fv := range s.Features {
			rec = append(rec, strconv.FormatFloat(fv, 'g', -1, 64))
		}
		rec = append(rec,
			strconv.Itoa(s.Prediction),
			strconv.FormatFloat(s.Probability, 'g', -1, 64),
			strconv.Itoa(s.Label),
		)
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", s.RowID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush dataset %s: %w", path, err)
	}
	return nil
}

// #endregion write
