package node

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/bundlegraph/pkg/dag"
)

// PerTarget is a string setting with an optional override per build target.
//
// It encodes as a plain string when there are no overrides, and as
// {"default": ..., "targets": {...}} otherwise.
type PerTarget struct {
	Default string            `json:"default"`
	Targets map[string]string `json:"targets,omitempty"`
}

// Value returns a PerTarget holding v for every target.
func Value(v string) PerTarget { return PerTarget{Default: v} }

// Get returns the override for t, or the default.
func (p PerTarget) Get(t dag.Target) string {
	if v, ok := p.Targets[string(t)]; ok {
		return v
	}
	return p.Default
}

// Set stores an override for t.
func (p *PerTarget) Set(t dag.Target, v string) {
	if p.Targets == nil {
		p.Targets = make(map[string]string)
	}
	p.Targets[string(t)] = v
}

// Remove drops the override for t.
func (p *PerTarget) Remove(t dag.Target) { delete(p.Targets, string(t)) }

// Overridden lists the targets with an override, sorted.
func (p PerTarget) Overridden() []string {
	return slices.Sorted(maps.Keys(p.Targets))
}

// Clone returns an independent copy.
func (p PerTarget) Clone() PerTarget {
	return PerTarget{Default: p.Default, Targets: maps.Clone(p.Targets)}
}

// MarshalJSON implements json.Marshaler.
func (p PerTarget) MarshalJSON() ([]byte, error) {
	if len(p.Targets) == 0 {
		return json.Marshal(p.Default)
	}
	type plain PerTarget
	return json.Marshal(plain(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PerTarget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PerTarget{Default: s}
		return nil
	}
	type plain PerTarget
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PerTarget(v)
	return nil
}
