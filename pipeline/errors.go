package pipeline

import (
	"errors"
	"fmt"
)

// ErrAnalysisExists is returned when an analysis is created for an asset that
// already has one. One analysis per asset is a data-integrity invariant
// enforced by a unique index, not by caller discipline.
var ErrAnalysisExists = errors.New("analysis already exists for media asset")

// ValidationError reports bad input at submit time: oversize files, wrong
// MIME family, malformed preferences. No asset is created when one is raised.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// MediaProcessingError reports a frame or thumbnail extraction failure.
// Terminal: the asset is marked failed.
type MediaProcessingError struct {
	Stage string
	Err   error
}

func (e *MediaProcessingError) Error() string {
	return fmt.Sprintf("media processing failed at %s: %v", e.Stage, e.Err)
}

func (e *MediaProcessingError) Unwrap() error { return e.Err }

// AnalysisError reports a failed vision model call or a response that does
// not conform to the expected schema. Terminal and never retried.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("room analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
