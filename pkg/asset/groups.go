package asset

import (
	"maps"
	"slices"
)

// GroupSet maps group keys to ordered reference sequences. It is the value
// carried by one connection during a run.
type GroupSet map[string][]Reference

// Single returns a GroupSet holding refs under DefaultGroupKey.
func Single(refs []Reference) GroupSet {
	return GroupSet{DefaultGroupKey: refs}
}

// Keys returns the group keys in sorted order.
func (g GroupSet) Keys() []string {
	return slices.Sorted(maps.Keys(g))
}

// Count returns the total number of references across all groups.
func (g GroupSet) Count() int {
	n := 0
	for _, refs := range g {
		n += len(refs)
	}
	return n
}

// Find returns the reference with the given path in group key.
func (g GroupSet) Find(key, p string) (Reference, bool) {
	for _, r := range g[key] {
		if r.Path == p {
			return r, true
		}
	}
	return Reference{}, false
}

// FindAny returns the first reference with the given path in any group,
// scanning keys in sorted order.
func (g GroupSet) FindAny(p string) (Reference, bool) {
	for _, k := range g.Keys() {
		if r, ok := g.Find(k, p); ok {
			return r, true
		}
	}
	return Reference{}, false
}

// Paths returns every referenced path, group by group in key order.
func (g GroupSet) Paths() []string {
	var out []string
	for _, k := range g.Keys() {
		for _, r := range g[k] {
			out = append(out, r.Path)
		}
	}
	return out
}

// Clone returns a copy whose slices can be modified independently.
func (g GroupSet) Clone() GroupSet {
	if g == nil {
		return nil
	}
	out := make(GroupSet, len(g))
	for k, refs := range g {
		out[k] = slices.Clone(refs)
	}
	return out
}

// Equal reports whether both sets hold the same keys with identical
// sequences in the same order.
func (g GroupSet) Equal(o GroupSet) bool {
	if len(g) != len(o) {
		return false
	}
	for k, refs := range g {
		other, ok := o[k]
		if !ok {
			return false
		}
		if !slices.EqualFunc(refs, other, Reference.Equal) {
			return false
		}
	}
	return true
}

// Merge concatenates the groups of several sets. Sets are applied in argument
// order; within a key a path already present is skipped, keeping the first
// occurrence.
func Merge(sets ...GroupSet) GroupSet {
	out := GroupSet{}
	seen := map[string]map[string]bool{}
	for _, s := range sets {
		for _, k := range s.Keys() {
			if seen[k] == nil {
				seen[k] = map[string]bool{}
			}
			if _, ok := out[k]; !ok {
				out[k] = []Reference{}
			}
			for _, r := range s[k] {
				if seen[k][r.Path] {
					continue
				}
				seen[k][r.Path] = true
				out[k] = append(out[k], r)
			}
		}
	}
	return out
}

// SortByPath orders references by path, in place.
func SortByPath(refs []Reference) {
	slices.SortStableFunc(refs, func(a, b Reference) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})
}
