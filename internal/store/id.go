package store

import "github.com/google/uuid"

// newID returns a random UUID for samples and replay runs.
func newID() string {
	return uuid.NewString()
}
