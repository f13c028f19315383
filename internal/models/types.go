package models

import (
	"time"

	"github.com/dotcommander/errshape/pkg/errshape"
)

// IDs are UUID strings (samples, replay runs).

// Sample sources recorded with each captured payload.
const (
	SourceCLI    = "cli"
	SourceIngest = "ingest"
)

// Sample is a captured error payload plus the normalized result it produced
// when it was recorded or last accepted.
type Sample struct {
	ID           string               `json:"id"`
	Fingerprint  string               `json:"fingerprint"`
	Resource     string               `json:"resource"`
	DefaultTitle string               `json:"default_title"`
	Payload      errshape.Value       `json:"payload"`
	Result       errshape.ParsedError `json:"result"`
	Source       string               `json:"source"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Options returns the parse options the sample was recorded with.
func (s *Sample) Options() []errshape.Option {
	return []errshape.Option{
		errshape.WithDefaultTitle(s.DefaultTitle),
		errshape.WithResourceName(s.Resource),
	}
}

// SampleFilter narrows ListSamples. Zero values match everything; Limit <= 0 means no limit.
type SampleFilter struct {
	Resource string
	Origin   errshape.Origin
	Limit    int
}

// ReplayRun is one recorded pass of re-parsing the corpus.
type ReplayRun struct {
	ID        string    `json:"id"`
	Total     int       `json:"total"`
	Drifted   int       `json:"drifted"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

// SampleDrift describes a sample whose stored result no longer matches Parse.
type SampleDrift struct {
	SampleID string               `json:"sample_id"`
	Resource string               `json:"resource"`
	Stored   errshape.ParsedError `json:"stored"`
	Current  errshape.ParsedError `json:"current"`
}

// ReplayReport is the outcome of a replay.
type ReplayReport struct {
	Run    ReplayRun     `json:"run"`
	Drifts []SampleDrift `json:"drifts"`
}

// OriginCount is the number of samples per origin.
type OriginCount struct {
	Origin errshape.Origin `json:"origin"`
	Count  int             `json:"count"`
}
