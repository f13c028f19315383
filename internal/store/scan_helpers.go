package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dotcommander/errshape/internal/models"
	"github.com/dotcommander/errshape/pkg/errshape"
)

const sampleColumns = `id, fingerprint, resource, default_title, payload, origin,
	toast_title, toast_description, form_issues, source, created_at, updated_at`

// scanNullString converts sql.NullString to string (empty if NULL)
func scanNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// sampleRowScanner encapsulates the common sample row scanning logic.
type sampleRowScanner struct {
	sample     models.Sample
	payload    string
	origin     string
	formIssues sql.NullString
}

func (s *sampleRowScanner) scan(row interface {
	Scan(dest ...any) error
}) error {
	return row.Scan(
		&s.sample.ID,
		&s.sample.Fingerprint,
		&s.sample.Resource,
		&s.sample.DefaultTitle,
		&s.payload,
		&s.origin,
		&s.sample.Result.ToastTitle,
		&s.sample.Result.ToastDescription,
		&s.formIssues,
		&s.sample.Source,
		&s.sample.CreatedAt,
		&s.sample.UpdatedAt,
	)
}

func (s *sampleRowScanner) hydrate() (*models.Sample, error) {
	payload, err := errshape.Decode([]byte(s.payload))
	if err != nil {
		return nil, fmt.Errorf("decode payload of sample %s: %w", s.sample.ID, err)
	}
	s.sample.Payload = payload
	s.sample.Result.Origin = errshape.Origin(s.origin)

	if raw := scanNullString(s.formIssues); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.sample.Result.FormIssues); err != nil {
			return nil, fmt.Errorf("decode form issues of sample %s: %w", s.sample.ID, err)
		}
	}
	out := s.sample
	return &out, nil
}

func encodeFormIssues(issues []errshape.FormIssue) (string, error) {
	if issues == nil {
		issues = []errshape.FormIssue{}
	}
	b, err := json.Marshal(issues)
	if err != nil {
		return "", fmt.Errorf("encode form issues: %w", err)
	}
	return string(b), nil
}
