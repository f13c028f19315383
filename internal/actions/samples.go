package actions

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dotcommander/errshape/internal/models"
	"github.com/dotcommander/errshape/internal/store"
	"github.com/dotcommander/errshape/pkg/cache"
	"github.com/dotcommander/errshape/pkg/errshape"
)

// ErrEmptyPayload is returned when there is nothing to record.
var ErrEmptyPayload = errors.New("payload is empty")

// newSample parses payload and fills a sample ready for store.AddSample.
func newSample(payload errshape.Value, source string, d ParseDefaults) models.Sample {
	d = d.normalized()
	return models.Sample{
		Fingerprint:  cache.Fingerprint(payload, d.Resource, d.Title),
		Resource:     d.Resource,
		DefaultTitle: d.Title,
		Payload:      payload,
		Result:       errshape.Parse(payload, d.options()...),
		Source:       source,
	}
}

// RecordSample decodes body, parses it and stores it in the corpus.
// created is false when an identical sample already existed.
func RecordSample(db *sql.DB, body []byte, source string, d ParseDefaults) (sample *models.Sample, created bool, err error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false, ErrEmptyPayload
	}
	if source == "" {
		source = models.SourceCLI
	}
	return store.AddSample(db, newSample(errshape.DecodeLenient(body), source, d))
}

// ReplaySamples re-parses every stored sample with the resource and title it
// was recorded with and reports samples whose stored result drifted. With
// accept, drifted samples are rewritten to the current result. Every call is
// recorded as a replay run.
func ReplaySamples(db *sql.DB, accept bool) (*models.ReplayReport, error) {
	samples, err := store.ListSamples(db, models.SampleFilter{})
	if err != nil {
		return nil, err
	}

	report := &models.ReplayReport{Drifts: []models.SampleDrift{}}
	for _, s := range samples {
		current := errshape.Parse(s.Payload, s.Options()...)
		same, err := sameResult(s.Result, current)
		if err != nil {
			return nil, err
		}
		if same {
			continue
		}
		report.Drifts = append(report.Drifts, models.SampleDrift{
			SampleID: s.ID,
			Resource: s.Resource,
			Stored:   s.Result,
			Current:  current,
		})
	}

	var run *models.ReplayRun
	err = store.Transact(db, func(tx *sql.Tx) error {
		if accept {
			for _, d := range report.Drifts {
				if err := store.UpdateSampleResultTx(tx, d.SampleID, d.Current); err != nil {
					return err
				}
			}
		}
		var txErr error
		run, txErr = store.RecordReplayRunTx(tx, len(samples), len(report.Drifts), accept)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	report.Run = *run

	if len(report.Drifts) > 0 {
		slog.Warn("replay drift", "drifted", len(report.Drifts), "total", len(samples), "accepted", accept)
	}
	return report, nil
}

// sameResult compares results by their JSON form so nil and empty paths agree.
func sameResult(a, b errshape.ParsedError) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ja, jb), nil
}

// IngestReport summarizes an IngestFile call.
type IngestReport struct {
	File       string                  `json:"file"`
	DryRun     bool                    `json:"dry_run"`
	Lines      int                     `json:"lines"`
	Imported   int                     `json:"imported"`
	Duplicates int                     `json:"duplicates"`
	Invalid    int                     `json:"invalid"`
	Origins    map[errshape.Origin]int `json:"origins"`
}

// envelopeKeys are the only keys an ingest envelope line may carry.
var envelopeKeys = map[string]bool{"resource": true, "title": true, "source": true, "error": true}

// ingestLine is one decoded capture line.
type ingestLine struct {
	payload  errshape.Value
	source   string
	defaults ParseDefaults
}

// decodeIngestLine accepts either a raw error body or an envelope
// {"resource", "title", "source", "error"}. A line is an envelope only when it
// has an "error" key and no keys outside the envelope set.
func decodeIngestLine(line []byte, d ParseDefaults) (ingestLine, error) {
	v, err := errshape.Decode(line)
	if err != nil {
		return ingestLine{}, err
	}
	out := ingestLine{payload: v, source: models.SourceIngest, defaults: d}
	if !isEnvelope(v) {
		return out, nil
	}

	out.payload = v.Field("error")
	if s, ok := v.Field("resource").Str(); ok {
		out.defaults.Resource = s
	}
	if s, ok := v.Field("title").Str(); ok {
		out.defaults.Title = s
	}
	if s, ok := v.Field("source").Str(); ok {
		out.source = s
	}
	return out, nil
}

func isEnvelope(v errshape.Value) bool {
	if v.Kind() != errshape.KindObject {
		return false
	}
	if _, ok := v.Get("error"); !ok {
		return false
	}
	for _, k := range v.Keys() {
		if !envelopeKeys[k] {
			return false
		}
	}
	return true
}

// IngestFile imports a JSON-lines capture file into the corpus. Lines that
// are not valid JSON are counted as invalid and skipped. With dryRun nothing
// is written; the report still carries per-origin counts.
func IngestFile(db *sql.DB, path string, dryRun bool, d ParseDefaults) (*IngestReport, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is an explicit CLI argument
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	report := &IngestReport{File: path, DryRun: dryRun, Origins: map[errshape.Origin]int{}}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		report.Lines++

		in, err := decodeIngestLine(line, d)
		if err != nil {
			slog.Debug("skipping invalid capture line", "file", path, "line", lineNo, "error", err.Error())
			report.Invalid++
			continue
		}

		sample := newSample(in.payload, in.source, in.defaults)
		report.Origins[sample.Result.Origin]++
		if dryRun {
			continue
		}

		_, created, err := store.AddSample(db, sample)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if created {
			report.Imported++
		} else {
			report.Duplicates++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return report, nil
}
