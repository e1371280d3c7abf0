package node

import (
	"encoding/json"
	"path"
	"strconv"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// MetaMembers holds the number of assets combined into a prefab or bundle.
const MetaMembers = "members"

// PrefabBuilder combines each group into one prefab asset written to
// OutputDir. The prefab's fingerprint is derived from its members, so it
// changes exactly when a member changes.
type PrefabBuilder struct {
	Name      string `json:"name,omitempty"`
	OutputDir string `json:"output_dir"`
}

func (b *PrefabBuilder) Kind() dag.Kind                { return dag.KindPrefabBuilder }
func (b *PrefabBuilder) InputSemantics() dag.Semantics { return dag.InputAny }

func (b *PrefabBuilder) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	n.AddDefaultOutputPoint()
}

func (b *PrefabBuilder) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (b *PrefabBuilder) Clone() dag.Operation {
	cp := *b
	return &cp
}

type prefabFile struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (b *PrefabBuilder) fileName(key string) string {
	if b.Name == "" {
		return key + ".prefab"
	}
	return b.Name + "_" + key + ".prefab"
}

func (b *PrefabBuilder) run(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit, write bool) error {
	if err := errors.ValidatePath(b.OutputDir); err != nil {
		return errors.ConfigError(n.ID, n.Name, "output dir: %s", errors.UserMessage(err))
	}

	in := merged(incoming)
	out := make(asset.GroupSet, len(in))
	for _, key := range in.Keys() {
		members := in[key]
		parts := make([]string, 0, 2*len(members))
		paths := make([]string, 0, len(members))
		for _, m := range members {
			parts = append(parts, m.Path, m.Fingerprint)
			paths = append(paths, m.Path)
		}
		p := path.Join(b.OutputDir, b.fileName(key))
		ref := asset.NewReference(p, cache.HashStrings(parts...))
		ref.Type = asset.TypePrefab
		ref = ref.WithMeta(map[string]string{MetaMembers: strconv.Itoa(len(members))})

		if write {
			data, err := json.MarshalIndent(prefabFile{Name: path.Base(p), Members: paths}, "", "  ")
			if err != nil {
				return errors.BuildError(n.ID, n.Name, err, "encode prefab %s", p)
			}
			if err := writeFile(ec, p, data); err != nil {
				return errors.BuildError(n.ID, n.Name, err, "write prefab %s", p)
			}
		}
		out[key] = []asset.Reference{ref}
	}
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (b *PrefabBuilder) Prepare(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return b.run(ec, n, incoming, outgoing, emit, false)
}

func (b *PrefabBuilder) Build(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return b.run(ec, n, incoming, outgoing, emit, true)
}
