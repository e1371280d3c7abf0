// Package cache provides byte-oriented storage backends used to persist the
// execution engine's output cache and file snapshots between process runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for build machines that reuse
//     one project checkout across invocations
//   - [NullCache]: stores nothing (caching disabled)
//
// Keys are produced by a [Keyer] so backends never see raw graph ids.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached values. Zero means no expiration.
const (
	TTLOutputs  time.Duration = 0
	TTLSnapshot time.Duration = 0
)

// Cache is a minimal key/value store.
// Get returns (nil, false, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the values bundlegraph persists.
type Keyer interface {
	// OutputKey identifies the engine output cache for a graph and build
	// target in one project tree.
	OutputKey(root, graphID, target string) string
	// SnapshotKey identifies the file snapshot of a project directory.
	SnapshotKey(root, dir string) string
}

// DefaultKeyer hashes key components so arbitrary ids and paths produce
// fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// OutputKey implements Keyer.
func (DefaultKeyer) OutputKey(root, graphID, target string) string {
	return hashKey("outputs", root, graphID, target)
}

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(root, dir string) string {
	return hashKey("snapshot", root, dir)
}
