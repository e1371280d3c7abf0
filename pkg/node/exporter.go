package node

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Exporter copies its input files into ExportPath. Files of the default
// group land directly in the export directory, other groups in a
// subdirectory named after the group key. It has no outputs and reports the
// copied references through a nil connection.
//
// ExportPath is project relative or absolute.
type Exporter struct {
	ExportPath PerTarget `json:"export_path"`
	CreateDir  bool      `json:"create_dir,omitempty"`
}

func (e *Exporter) Kind() dag.Kind                { return dag.KindExporter }
func (e *Exporter) InputSemantics() dag.Semantics { return dag.InputAny }
func (e *Exporter) Initialize(n *dag.Node)        { n.AddDefaultInputPoint() }

func (e *Exporter) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (e *Exporter) Clone() dag.Operation {
	return &Exporter{ExportPath: e.ExportPath.Clone(), CreateDir: e.CreateDir}
}

func (e *Exporter) dir(ec *dag.ExecContext, n *dag.Node) (string, error) {
	p := strings.TrimSuffix(e.ExportPath.Get(ec.Target), "/")
	if p == "" {
		return "", errors.ConfigError(n.ID, n.Name, "export path is empty")
	}
	if !filepath.IsAbs(filepath.FromSlash(p)) {
		if err := errors.ValidatePath(p); err != nil {
			return "", errors.ConfigError(n.ID, n.Name, "export path: %s", errors.UserMessage(err))
		}
	}
	if !e.CreateDir {
		info, err := os.Stat(projectPath(ec, p))
		if err != nil || !info.IsDir() {
			return "", errors.ConfigError(n.ID, n.Name, "export directory not found: %s", p)
		}
	}
	return p, nil
}

// plan maps every input reference to its destination path. Two inputs
// with the same destination are a BUILD error.
func (e *Exporter) plan(n *dag.Node, dir string, in asset.GroupSet) (asset.GroupSet, error) {
	out := make(asset.GroupSet, len(in))
	from := make(map[string]string)
	for _, key := range in.Keys() {
		refs := make([]asset.Reference, len(in[key]))
		for i, r := range in[key] {
			dst := path.Join(dir, r.Name())
			if key != asset.DefaultGroupKey {
				dst = path.Join(dir, key, r.Name())
			}
			if prev, ok := from[dst]; ok {
				return nil, errors.BuildError(n.ID, n.Name, nil, "%s and %s both export to %s", prev, r.Path, dst)
			}
			from[dst] = r.Path
			cp := r
			cp.Path = dst
			refs[i] = cp
		}
		out[key] = refs
	}
	return out, nil
}

func (e *Exporter) Prepare(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	dir, err := e.dir(ec, n)
	if err != nil {
		return err
	}
	out, err := e.plan(n, dir, merged(incoming))
	if err != nil {
		return err
	}
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (e *Exporter) Build(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	dir, err := e.dir(ec, n)
	if err != nil {
		return err
	}
	if e.CreateDir {
		if err := os.MkdirAll(projectPath(ec, dir), 0755); err != nil {
			return errors.BuildError(n.ID, n.Name, err, "create %s", dir)
		}
	}
	in := merged(incoming)
	out, err := e.plan(n, dir, in)
	if err != nil {
		return err
	}
	for _, key := range in.Keys() {
		for i, r := range in[key] {
			if err := ec.Context().Err(); err != nil {
				return err
			}
			dst := out[key][i].Path
			if err := copyFile(projectPath(ec, r.Path), projectPath(ec, dst)); err != nil {
				return errors.BuildError(n.ID, n.Name, err, "export %s", r.Path)
			}
		}
	}
	ec.Log().Info("exported", "node", n.Name, "dir", dir, "files", out.Count())
	dag.EmitAll(outgoing, emit, out)
	return nil
}
