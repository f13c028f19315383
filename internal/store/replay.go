package store

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/errshape/internal/models"
)

// RecordReplayRun stores the outcome of one replay pass.
func RecordReplayRun(db *sql.DB, total, drifted int, accepted bool) (*models.ReplayRun, error) {
	var run *models.ReplayRun
	err := Transact(db, func(tx *sql.Tx) error {
		var txErr error
		run, txErr = RecordReplayRunTx(tx, total, drifted, accepted)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// RecordReplayRunTx is RecordReplayRun inside an existing transaction.
func RecordReplayRunTx(tx *sql.Tx, total, drifted int, accepted bool) (*models.ReplayRun, error) {
	id := newID()
	if _, err := tx.Exec(`
		INSERT INTO replay_runs (id, total, drifted, accepted, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id, total, drifted, accepted); err != nil {
		return nil, fmt.Errorf("failed to insert replay run: %w", err)
	}

	var run models.ReplayRun
	if err := tx.QueryRow(`
		SELECT id, total, drifted, accepted, created_at FROM replay_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Total, &run.Drifted, &run.Accepted, &run.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to fetch replay run: %w", err)
	}
	return &run, nil
}

// ListReplayRuns returns recorded replay runs, newest first.
// limit <= 0 returns all of them.
func ListReplayRuns(db *sql.DB, limit int) ([]*models.ReplayRun, error) {
	query := `SELECT id, total, drifted, accepted, created_at FROM replay_runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var runs []*models.ReplayRun
	err := RetryWithBackoff(func() error {
		runs = nil
		rows, err := db.Query(query, args...)
		if err != nil {
			return fmt.Errorf("failed to query replay runs: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var run models.ReplayRun
			if err := rows.Scan(&run.ID, &run.Total, &run.Drifted, &run.Accepted, &run.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan replay run: %w", err)
			}
			runs = append(runs, &run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
