package asset

import "slices"

// Delta is a file-system change set. Paths are project-relative and case
// sensitive.
type Delta struct {
	Imported  []string `json:"imported,omitempty"`
	Deleted   []string `json:"deleted,omitempty"`
	Moved     []string `json:"moved,omitempty"`
	MovedFrom []string `json:"moved_from,omitempty"`
}

// IsEmpty reports whether the delta lists no paths at all.
func (d Delta) IsEmpty() bool {
	return len(d.Imported) == 0 && len(d.Deleted) == 0 &&
		len(d.Moved) == 0 && len(d.MovedFrom) == 0
}

// All returns every path in the delta, duplicates removed, sorted.
func (d Delta) All() []string {
	all := slices.Concat(d.Imported, d.Deleted, d.Moved, d.MovedFrom)
	slices.Sort(all)
	return slices.Compact(all)
}

// Touches reports whether any path in the delta lies under dir.
func (d Delta) Touches(dir string) bool {
	for _, p := range d.All() {
		if Under(p, dir) {
			return true
		}
	}
	return false
}

// Len returns the number of paths across the four sets.
func (d Delta) Len() int {
	return len(d.Imported) + len(d.Deleted) + len(d.Moved) + len(d.MovedFrom)
}
