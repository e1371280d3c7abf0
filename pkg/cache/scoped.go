package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// backend, typically one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:game-client:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// OutputKey generates a prefixed key for the engine output cache.
func (k *ScopedKeyer) OutputKey(root, graphID, target string) string {
	return k.prefix + k.inner.OutputKey(root, graphID, target)
}

// SnapshotKey generates a prefixed key for a file snapshot.
func (k *ScopedKeyer) SnapshotKey(root, dir string) string {
	return k.prefix + k.inner.SnapshotKey(root, dir)
}
