package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ RecoverableError = (*SampleNotFoundError)(nil)

func TestSampleNotFoundError(t *testing.T) {
	err := &SampleNotFoundError{ID: "abc"}

	assert.ErrorIs(t, err, ErrSampleNotFound)
	assert.ErrorIs(t, fmt.Errorf("get: %w", err), ErrSampleNotFound)
	assert.False(t, errors.Is(err, errors.New("sample not found")))

	assert.Equal(t, "sample not found: abc", err.Error())
	assert.Equal(t, "SAMPLE_NOT_FOUND", err.ErrorCode())
	assert.Equal(t, map[string]string{"sample_id": "abc"}, err.Context())
	assert.NotEmpty(t, err.SuggestedAction())
	assert.Equal(t, []any{"error_code", "SAMPLE_NOT_FOUND", "sample_id", "abc"}, err.SlogAttrs())

	var re RecoverableError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &re))
	assert.Equal(t, "SAMPLE_NOT_FOUND", re.ErrorCode())
}
