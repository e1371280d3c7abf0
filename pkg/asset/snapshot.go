package asset

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Snapshot records the fingerprint of every file below a directory at one
// point in time.
type Snapshot map[string]string

// Scan resolves every file below dir into a snapshot.
func Scan(r Resolver, dir string) (Snapshot, error) {
	paths, err := r.List(dir)
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, len(paths))
	for _, p := range paths {
		ref, ok, err := r.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p, err)
		}
		if ok {
			snap[p] = ref.Fingerprint
		}
	}
	return snap, nil
}

// Diff derives the delta that turns prev into s. New and changed files are
// reported as imported, missing files as deleted. Moves cannot be told apart
// from a delete plus an import and are reported that way.
func (s Snapshot) Diff(prev Snapshot) Delta {
	var d Delta
	for _, p := range slices.Sorted(maps.Keys(s)) {
		if old, ok := prev[p]; !ok || old != s[p] {
			d.Imported = append(d.Imported, p)
		}
	}
	for _, p := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := s[p]; !ok {
			d.Deleted = append(d.Deleted, p)
		}
	}
	return d
}

// Marshal encodes the snapshot as JSON.
func (s Snapshot) Marshal() ([]byte, error) { return json.Marshal(s) }

// UnmarshalSnapshot decodes a snapshot produced by Marshal.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s == nil {
		s = Snapshot{}
	}
	return s, nil
}
