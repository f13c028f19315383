// Package cache keeps recently parsed error payloads so repeated payloads in
// a batch are normalized once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dotcommander/errshape/pkg/errshape"
)

// Cache is a resource-scoped store of parse results with optional TTL.
type Cache interface {
	Set(scope, key string, value errshape.ParsedError, opts ...Option)
	Get(scope, key string) (Entry, bool)
	Delete(scope, key string) bool
	List(scope string) []Entry
	Len() int
}

// Entry is one cached parse result.
type Entry struct {
	Key       string               `json:"key"`
	Scope     string               `json:"scope"`
	Value     errshape.ParsedError `json:"value"`
	Hits      int                  `json:"hits"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
	CreatedAt time.Time            `json:"created_at"`
}

type setOptions struct {
	ttl time.Duration
}

// Option configures a Set operation.
type Option func(*setOptions)

// WithTTL sets a time-to-live on the entry.
func WithTTL(d time.Duration) Option {
	return func(o *setOptions) {
		o.ttl = d
	}
}

// Fingerprint identifies a parse request: the canonical JSON of the payload
// plus the resource and default title that shape the result.
func Fingerprint(payload errshape.Value, resource, title string) string {
	canonical, err := payload.MarshalJSON()
	if err != nil {
		canonical = []byte(payload.String())
	}
	h := sha256.New()
	h.Write(canonical)
	h.Write([]byte{0})
	h.Write([]byte(resource))
	h.Write([]byte{0})
	h.Write([]byte(title))
	return hex.EncodeToString(h.Sum(nil))
}
