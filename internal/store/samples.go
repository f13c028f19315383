package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/errshape/internal/models"
	"github.com/dotcommander/errshape/pkg/errshape"
)

// AddSample stores s unless a sample with the same fingerprint already exists,
// in which case the existing row is returned with created=false.
func AddSample(db *sql.DB, s models.Sample) (sample *models.Sample, created bool, err error) {
	err = Transact(db, func(tx *sql.Tx) error {
		var txErr error
		sample, created, txErr = AddSampleTx(tx, s)
		return txErr
	})
	if err != nil {
		return nil, false, err
	}
	return sample, created, nil
}

// AddSampleTx is AddSample inside an existing transaction.
func AddSampleTx(tx *sql.Tx, s models.Sample) (*models.Sample, bool, error) {
	if s.Fingerprint == "" {
		return nil, false, fmt.Errorf("sample fingerprint is required")
	}
	payload, err := s.Payload.MarshalJSON()
	if err != nil {
		return nil, false, fmt.Errorf("encode payload: %w", err)
	}
	issues, err := encodeFormIssues(s.Result.FormIssues)
	if err != nil {
		return nil, false, err
	}
	source := s.Source
	if source == "" {
		source = models.SourceCLI
	}

	result, err := tx.Exec(`
		INSERT OR IGNORE INTO samples (
			id, fingerprint, resource, default_title, payload, origin,
			toast_title, toast_description, form_issues, source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, newID(), s.Fingerprint, s.Resource, s.DefaultTitle, string(payload), string(s.Result.Origin),
		s.Result.ToastTitle, s.Result.ToastDescription, issues, source)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert sample: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	var sc sampleRowScanner
	if err := sc.scan(tx.QueryRow(`SELECT `+sampleColumns+` FROM samples WHERE fingerprint = ?`, s.Fingerprint)); err != nil {
		return nil, false, fmt.Errorf("failed to fetch sample: %w", err)
	}
	sample, err := sc.hydrate()
	if err != nil {
		return nil, false, err
	}
	return sample, rowsAffected > 0, nil
}

// GetSample retrieves a sample by ID.
func GetSample(db *sql.DB, id string) (*models.Sample, error) {
	var sc sampleRowScanner
	err := RetryWithBackoff(func() error {
		return sc.scan(db.QueryRow(`SELECT `+sampleColumns+` FROM samples WHERE id = ?`, id))
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &SampleNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sample: %w", err)
	}
	return sc.hydrate()
}

// ListSamples returns samples matching filter, newest first.
func ListSamples(db *sql.DB, filter models.SampleFilter) ([]*models.Sample, error) {
	var (
		where []string
		args  []any
	)
	if filter.Resource != "" {
		where = append(where, "resource = ?")
		args = append(args, filter.Resource)
	}
	if filter.Origin != "" {
		where = append(where, "origin = ?")
		args = append(args, string(filter.Origin))
	}

	query := `SELECT ` + sampleColumns + ` FROM samples`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// rowid breaks ties between rows inserted within the same second.
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var samples []*models.Sample
	err := RetryWithBackoff(func() error {
		samples = nil
		rows, err := db.Query(query, args...)
		if err != nil {
			return fmt.Errorf("failed to query samples: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var sc sampleRowScanner
			if err := sc.scan(rows); err != nil {
				return fmt.Errorf("failed to scan sample: %w", err)
			}
			sample, err := sc.hydrate()
			if err != nil {
				return err
			}
			samples = append(samples, sample)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// DeleteSample removes a sample by ID.
func DeleteSample(db *sql.DB, id string) error {
	return Transact(db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM samples WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete sample: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return &SampleNotFoundError{ID: id}
		}
		return nil
	})
}

// UpdateSampleResult replaces the stored result of a sample.
func UpdateSampleResult(db *sql.DB, id string, result errshape.ParsedError) error {
	return Transact(db, func(tx *sql.Tx) error {
		return UpdateSampleResultTx(tx, id, result)
	})
}

// UpdateSampleResultTx is UpdateSampleResult inside an existing transaction.
func UpdateSampleResultTx(tx *sql.Tx, id string, result errshape.ParsedError) error {
	issues, err := encodeFormIssues(result.FormIssues)
	if err != nil {
		return err
	}
	res, err := tx.Exec(`
		UPDATE samples
		SET origin = ?, toast_title = ?, toast_description = ?, form_issues = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(result.Origin), result.ToastTitle, result.ToastDescription, issues, id)
	if err != nil {
		return fmt.Errorf("failed to update sample: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &SampleNotFoundError{ID: id}
	}
	return nil
}
