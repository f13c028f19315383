package store

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/errshape/internal/models"
	"github.com/dotcommander/errshape/pkg/errshape"
)

// CorpusStats summarizes the sample corpus.
type CorpusStats struct {
	Total      int                  `json:"total"`
	Origins    []models.OriginCount `json:"origins"`
	Resources  []string             `json:"resources"`
	LastReplay *models.ReplayRun    `json:"last_replay,omitempty"`
}

// OriginCounts returns one entry per known origin, zero counts included,
// followed by any unknown origins found in the table.
func OriginCounts(db Querier) ([]models.OriginCount, error) {
	found := make(map[errshape.Origin]int)
	var extra []errshape.Origin

	err := RetryWithBackoff(func() error {
		clear(found)
		extra = nil
		rows, err := db.Query(`SELECT origin, COUNT(*) FROM samples GROUP BY origin ORDER BY origin`)
		if err != nil {
			return fmt.Errorf("failed to count origins: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var origin string
			var n int
			if err := rows.Scan(&origin, &n); err != nil {
				return err
			}
			o := errshape.Origin(origin)
			if _, err := errshape.ParseOrigin(origin); err != nil {
				extra = append(extra, o)
			}
			found[o] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	counts := make([]models.OriginCount, 0, len(errshape.Origins)+len(extra))
	for _, o := range errshape.Origins {
		counts = append(counts, models.OriginCount{Origin: o, Count: found[o]})
	}
	for _, o := range extra {
		counts = append(counts, models.OriginCount{Origin: o, Count: found[o]})
	}
	return counts, nil
}

// Stats returns corpus totals, per-origin counts, known resources and the last replay run.
func Stats(db *sql.DB) (*CorpusStats, error) {
	var stats CorpusStats

	if err := RetryWithBackoff(func() error {
		return db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&stats.Total)
	}); err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}

	origins, err := OriginCounts(db)
	if err != nil {
		return nil, err
	}
	stats.Origins = origins

	resources, err := queryStringColumn(db, `SELECT DISTINCT resource FROM samples ORDER BY resource`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	stats.Resources = resources

	runs, err := ListReplayRuns(db, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) > 0 {
		stats.LastReplay = runs[0]
	}
	return &stats, nil
}
