package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dotcommander/errshape/pkg/errshape"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RunDiagnostics performs consistency checks on the corpus and returns findings.
func RunDiagnostics(db *sql.DB) ([]Diagnostic, error) {
	var diags []Diagnostic

	schema, err := checkSchemaVersion(db)
	if err != nil {
		return nil, fmt.Errorf("schema version check: %w", err)
	}
	diags = append(diags, schema...)

	unknown, err := findUnknownOrigins(db)
	if err != nil {
		return nil, fmt.Errorf("origin check: %w", err)
	}
	diags = append(diags, unknown...)

	corrupt, err := findCorruptPayloads(db)
	if err != nil {
		return nil, fmt.Errorf("payload check: %w", err)
	}
	diags = append(diags, corrupt...)

	neverReplayed, err := checkNeverReplayed(db)
	if err != nil {
		return nil, fmt.Errorf("replay check: %w", err)
	}
	diags = append(diags, neverReplayed...)

	return diags, nil
}

func checkSchemaVersion(db *sql.DB) ([]Diagnostic, error) {
	current, latest, err := SchemaVersion(db)
	if err != nil {
		return nil, err
	}
	if current >= latest {
		return nil, nil
	}
	return []Diagnostic{{
		Level:           "error",
		Code:            "SCHEMA_BEHIND",
		Message:         fmt.Sprintf("schema version %d is behind latest %d", current, latest),
		SuggestedAction: "re-run any errshape command to apply migrations",
	}}, nil
}

// findUnknownOrigins finds samples stored with an origin this build does not know.
func findUnknownOrigins(db *sql.DB) ([]Diagnostic, error) {
	known := make([]string, len(errshape.Origins))
	args := make([]any, len(errshape.Origins))
	for i, o := range errshape.Origins {
		known[i] = "?"
		args[i] = string(o)
	}

	rows, err := db.QueryContext(context.Background(), `
		SELECT origin, COUNT(*) FROM samples
		WHERE origin NOT IN (`+strings.Join(known, ", ")+`)
		GROUP BY origin
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var diags []Diagnostic
	for rows.Next() {
		var origin string
		var n int
		if err := rows.Scan(&origin, &n); err != nil {
			return nil, err
		}
		diags = append(diags, Diagnostic{
			Level:           "warning",
			Code:            "UNKNOWN_ORIGIN",
			Message:         fmt.Sprintf("%d sample(s) have unknown origin %q", n, origin),
			SuggestedAction: "errshape sample replay --accept",
		})
	}
	return diags, rows.Err()
}

// findCorruptPayloads finds samples whose stored payload no longer decodes.
func findCorruptPayloads(db *sql.DB) ([]Diagnostic, error) {
	rows, err := db.QueryContext(context.Background(), `SELECT id, payload FROM samples`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var diags []Diagnostic
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		if _, decodeErr := errshape.Decode([]byte(payload)); decodeErr != nil {
			diags = append(diags, Diagnostic{
				Level:           "error",
				Code:            "CORRUPT_PAYLOAD",
				Message:         fmt.Sprintf("sample %s payload does not decode: %v", id, decodeErr),
				SuggestedAction: "errshape sample delete " + id,
			})
		}
	}
	return diags, rows.Err()
}

func checkNeverReplayed(db *sql.DB) ([]Diagnostic, error) {
	var samples, runs int
	if err := db.QueryRowContext(context.Background(), `
		SELECT (SELECT COUNT(*) FROM samples), (SELECT COUNT(*) FROM replay_runs)
	`).Scan(&samples, &runs); err != nil {
		return nil, err
	}
	if samples == 0 || runs > 0 {
		return nil, nil
	}
	return []Diagnostic{{
		Level:           "warning",
		Code:            "NEVER_REPLAYED",
		Message:         fmt.Sprintf("%d sample(s) recorded but the corpus was never replayed", samples),
		SuggestedAction: "errshape sample replay",
	}}, nil
}
