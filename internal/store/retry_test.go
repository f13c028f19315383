package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"busy wrapped", fmt.Errorf("insert sample: %w", errors.New("SQLITE_BUSY")), true},
		{"unique", errors.New("UNIQUE constraint failed: samples.fingerprint"), false},
		{"not found", ErrSampleNotFound, false},
		{"no rows", sql.ErrNoRows, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(func() error {
		attempts++
		return ErrSampleNotFound
	})
	require.ErrorIs(t, err, ErrSampleNotFound)
	assert.Equal(t, 1, attempts)
}
