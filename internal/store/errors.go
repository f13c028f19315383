package store

import (
	"errors"

	"github.com/dotcommander/errshape/internal/models"
)

// RecoverableError is an alias for models.RecoverableError so callers can
// reference store.RecoverableError.
type RecoverableError = models.RecoverableError

// ErrSampleNotFound is matched by SampleNotFoundError via errors.Is.
var ErrSampleNotFound = errors.New("sample not found")

// SampleNotFoundError reports a lookup by ID that matched no sample.
type SampleNotFoundError struct {
	ID string
}

func (e *SampleNotFoundError) Error() string     { return "sample not found: " + e.ID }
func (e *SampleNotFoundError) ErrorCode() string { return "SAMPLE_NOT_FOUND" }
func (e *SampleNotFoundError) Context() map[string]string {
	return map[string]string{"sample_id": e.ID}
}
func (e *SampleNotFoundError) SuggestedAction() string {
	return "errshape sample list"
}
func (e *SampleNotFoundError) Is(target error) bool { return target == ErrSampleNotFound }

// SlogAttrs exposes structured fields for the command error log line.
func (e *SampleNotFoundError) SlogAttrs() []any {
	return []any{"error_code", e.ErrorCode(), "sample_id", e.ID}
}
