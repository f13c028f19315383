package actions

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/dotcommander/errshape/pkg/cache"
	"github.com/dotcommander/errshape/pkg/errshape"
)

// maxLineBytes bounds one JSON-lines record; captured bodies can be large.
const maxLineBytes = 4 * 1024 * 1024

// ParseDefaults are the per-call parse settings. They also key the cache
// and sample fingerprints, so two calls with different defaults never share
// a result.
type ParseDefaults struct {
	Resource string `json:"resource"`
	Title    string `json:"title"`
}

// normalized fills empty fields with the engine defaults.
func (d ParseDefaults) normalized() ParseDefaults {
	if d.Resource == "" {
		d.Resource = errshape.DefaultResourceName
	}
	if d.Title == "" {
		d.Title = errshape.DefaultTitle
	}
	return d
}

func (d ParseDefaults) options() []errshape.Option {
	return []errshape.Option{
		errshape.WithResourceName(d.Resource),
		errshape.WithDefaultTitle(d.Title),
	}
}

// ParsePayload decodes body leniently and normalizes it.
func ParsePayload(body []byte, d ParseDefaults) errshape.ParsedError {
	return errshape.Parse(errshape.DecodeLenient(body), d.normalized().options()...)
}

// ExtractPayload runs only the specific-message extractor over body.
func ExtractPayload(body []byte, d ParseDefaults) errshape.ExtractionResult {
	return errshape.ExtractFor(errshape.DecodeLenient(body), d.normalized().Resource)
}

// BatchItem is the result for one input line.
type BatchItem struct {
	Line        int                  `json:"line"`
	Fingerprint string               `json:"fingerprint"`
	Cached      bool                 `json:"cached"`
	Result      errshape.ParsedError `json:"result"`
}

// BatchResult summarizes a ParseBatch call.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Total     int         `json:"total"`
	CacheHits int         `json:"cache_hits"`
}

// ParseBatch parses JSON-lines input, one payload per non-blank line.
// Repeated payloads are served from c, scoped by resource.
func ParseBatch(r io.Reader, d ParseDefaults, c cache.Cache, opts ...cache.Option) (*BatchResult, error) {
	d = d.normalized()
	res := &BatchResult{Items: []BatchItem{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		payload := errshape.DecodeLenient(line)
		fp := cache.Fingerprint(payload, d.Resource, d.Title)

		item := BatchItem{Line: lineNo, Fingerprint: fp}
		if entry, ok := c.Get(d.Resource, fp); ok {
			item.Result = entry.Value
			item.Cached = true
			res.CacheHits++
		} else {
			item.Result = errshape.Parse(payload, d.options()...)
			c.Set(d.Resource, fp, item.Result, opts...)
		}
		res.Items = append(res.Items, item)
		res.Total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return res, nil
}
