package node

import (
	"maps"
	"slices"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// MetaModifier records which modifier touched a reference.
const MetaModifier = "modifier"

// Modifier tags references of the selected types with a named modification
// and its parameters. References of other types pass through untouched.
type Modifier struct {
	Modifier string            `json:"modifier"`
	Params   map[string]string `json:"params,omitempty"`
	Types    []string          `json:"types,omitempty"`
}

func (m *Modifier) Kind() dag.Kind                { return dag.KindModifier }
func (m *Modifier) InputSemantics() dag.Semantics { return dag.InputAny }

func (m *Modifier) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	n.AddDefaultOutputPoint()
}

func (m *Modifier) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (m *Modifier) Clone() dag.Operation {
	return &Modifier{Modifier: m.Modifier, Params: maps.Clone(m.Params), Types: slices.Clone(m.Types)}
}

func (m *Modifier) applies(ref asset.Reference) bool {
	return len(m.Types) == 0 || slices.Contains(m.Types, ref.Type)
}

func (m *Modifier) run(n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	if m.Modifier == "" {
		return errors.ConfigError(n.ID, n.Name, "modifier name is required")
	}
	kv := map[string]string{MetaModifier: m.Modifier}
	for k, v := range m.Params {
		kv[MetaModifier+"."+k] = v
	}

	in := merged(incoming)
	out := make(asset.GroupSet, len(in))
	for _, key := range in.Keys() {
		refs := make([]asset.Reference, len(in[key]))
		for i, r := range in[key] {
			if m.applies(r) {
				r = r.WithMeta(kv)
			}
			refs[i] = r
		}
		out[key] = refs
	}
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (m *Modifier) Prepare(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return m.run(n, incoming, outgoing, emit)
}

func (m *Modifier) Build(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return m.run(n, incoming, outgoing, emit)
}
