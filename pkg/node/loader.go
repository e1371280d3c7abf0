package node

import (
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Loader emits every asset below a directory as group "0". Files that are
// not assets themselves (see asset.Loadable) are skipped.
//
// LoadPath is project relative ("Assets/Textures"). An empty LoadPath loads
// the whole Assets tree except the tool's config directory.
type Loader struct {
	LoadPath PerTarget `json:"load_path"`
}

// NewLoader returns a loader for dir.
func NewLoader(dir string) *Loader { return &Loader{LoadPath: Value(dir)} }

func (l *Loader) Kind() dag.Kind                { return dag.KindLoader }
func (l *Loader) InputSemantics() dag.Semantics { return dag.InputNone }
func (l *Loader) Initialize(n *dag.Node)        { n.AddDefaultOutputPoint() }

func (l *Loader) Clone() dag.Operation {
	return &Loader{LoadPath: l.LoadPath.Clone()}
}

// Root returns the directory loaded for target t.
func (l *Loader) Root(t dag.Target) string {
	p := strings.TrimSuffix(l.LoadPath.Get(t), "/")
	if p == "" {
		return asset.AssetsRoot
	}
	return p
}

// NeedsRevisit decides whether the delta affects this loader.
//
// An empty load path makes the loader relevant to any imported path outside
// the config directory. Other kinds should not copy this rule.
//
// Once the loader has produced output, an imported path under the load root
// marks it dirty unless the exact same file (same fingerprint) is already
// part of that output. Deleted and moved paths under the root always do.
func (l *Loader) NeedsRevisit(n *dag.Node, rc dag.RevisitContext) bool {
	if l.LoadPath.Get(rc.Target) == "" {
		for _, p := range rc.Delta.Imported {
			if asset.Loadable(p) && !asset.Under(p, asset.ConfigDir) {
				return true
			}
		}
	}

	if len(rc.Previous) == 0 {
		return false
	}
	root := l.Root(rc.Target)
	prev := rc.PreviousOutput()
	for _, p := range rc.Delta.Imported {
		if !asset.Loadable(p) || !asset.Under(p, root) || asset.Under(p, asset.ConfigDir) {
			continue
		}
		old, ok := prev.Find(asset.DefaultGroupKey, p)
		if !ok {
			return true
		}
		if rc.Resolver == nil {
			continue
		}
		cur, found, err := rc.Resolver.Resolve(p)
		if err != nil || !found || !cur.Same(old) {
			return true
		}
	}
	for _, set := range [][]string{rc.Delta.Deleted, rc.Delta.Moved, rc.Delta.MovedFrom} {
		for _, p := range set {
			if asset.Loadable(p) && asset.Under(p, root) {
				return true
			}
		}
	}
	return false
}

func (l *Loader) Prepare(ec *dag.ExecContext, n *dag.Node, _ []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return l.load(ec, n, outgoing, emit)
}

func (l *Loader) Build(ec *dag.ExecContext, n *dag.Node, _ []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return l.load(ec, n, outgoing, emit)
}

func (l *Loader) load(ec *dag.ExecContext, n *dag.Node, outgoing []*dag.Connection, emit dag.Emit) error {
	root := l.Root(ec.Target)
	if err := errors.ValidatePath(root); err != nil {
		return errors.ConfigError(n.ID, n.Name, "invalid load path %q: %s", root, errors.UserMessage(err))
	}
	if !asset.Under(root, asset.AssetsRoot) {
		return errors.ConfigError(n.ID, n.Name, "load path must be under %s/: %s", asset.AssetsRoot, root)
	}
	if !dirExists(ec.Resolver, root) {
		return errors.ConfigError(n.ID, n.Name, "directory not found: %s", root)
	}

	paths, err := ec.Resolver.List(root)
	if err != nil {
		return errors.BuildError(n.ID, n.Name, err, "list %s", root)
	}
	refs := make([]asset.Reference, 0, len(paths))
	for _, p := range paths {
		if !asset.Loadable(p) || asset.Under(p, asset.ConfigDir) {
			continue
		}
		ref, ok, err := ec.Resolver.Resolve(p)
		if err != nil {
			return errors.BuildError(n.ID, n.Name, err, "resolve %s", p)
		}
		if ok {
			refs = append(refs, ref)
		}
	}
	asset.SortByPath(refs)
	ec.Log().Debug("loaded", "node", n.Name, "dir", root, "assets", len(refs))
	dag.EmitAll(outgoing, emit, asset.Single(refs))
	return nil
}
