// Package cache stores snapshots of successful GET responses in versioned
// namespaces. Exactly one namespace is current at a time; stale namespaces
// are purged when a new gateway version activates.
package cache

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNotFound is returned when a namespace holds no entry for a URL.
var ErrNotFound = errors.New("cache entry not found")

// Entry is one cached response. Entries are idempotent snapshots: writing
// the same URL again simply overwrites (last writer wins).
type Entry struct {
	URL      string
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Store is the cache backend. Implementations must support concurrent
// readers and atomic per-key overwrite.
type Store interface {
	Get(ctx context.Context, namespace, url string) (*Entry, error)
	Put(ctx context.Context, namespace string, e *Entry) error
	Namespaces(ctx context.Context) ([]string, error)
	DeleteNamespace(ctx context.Context, namespace string) error
	Close() error
}
