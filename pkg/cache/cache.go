// Package cache stores computed orderings so repeated runs over an unchanged
// document skip the sort.
//
// Backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Keys are built by a [Keyer]. [ScopedKeyer] prefixes every key so several
// deployments can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// OrderKey identifies the ordering of a document in the given mode
	// ("dependency" or "precedence").
	OrderKey(docHash, mode string) string

	// CyclesKey identifies the cycle report of a document.
	CyclesKey(docHash string) string
}

// DefaultKeyer produces unscoped keys of the form "order:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OrderKey hashes the document hash together with the mode.
func (DefaultKeyer) OrderKey(docHash, mode string) string {
	return hashKey("order", docHash, mode)
}

// CyclesKey hashes the document hash.
func (DefaultKeyer) CyclesKey(docHash string) string {
	return hashKey("cycles", docHash)
}
