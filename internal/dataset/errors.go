package dataset

import "errors"

// #region errors

// ErrInputMissing marks a required input file that is absent. The wrapping
// error carries the expected path. One-shot batch pipeline: no retry.
var ErrInputMissing = errors.New("input missing")

// ErrDataIntegrity marks a malformed row or metadata field. A partial or
// corrupt row is fatal for the run; bad samples are never skipped silently.
var ErrDataIntegrity = errors.New("data integrity")

// #endregion errors
