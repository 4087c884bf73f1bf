// Package blobstore is the object-store boundary between collection and the
// warehouse load: batches are externalized as date-partitioned JSON payloads
// and pulled back by the load phases.
package blobstore

import (
	"context"
	"fmt"
	"time"
)

// Store abstracts the durable object store holding externalized batches.
type Store interface {
	// Put writes an object under the given name, overwriting any existing one.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the contents of the named object.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all objects under the given prefix, sorted
	// lexicographically.
	List(ctx context.Context, prefix string) ([]string, error)
}

// DatePrefix returns the partition prefix for a collection date,
// e.g. "raw/2026/08/23".
func DatePrefix(t time.Time) string {
	return fmt.Sprintf("raw/%04d/%02d/%02d", t.Year(), t.Month(), t.Day())
}
