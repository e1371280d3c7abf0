package node

import (
	"maps"
	"slices"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Meta keys written by ImportSetting.
const (
	MetaImportPrefix = "import."
	MetaImportConfig = "import.config"
)

// ImportSetting attaches import settings to every reference passing
// through. When ConfigPath names a settings asset, its fingerprint is
// attached too, so editing that asset changes the downstream output.
type ImportSetting struct {
	Settings   map[string]string `json:"settings,omitempty"`
	ConfigPath string            `json:"config_path,omitempty"`
}

func (s *ImportSetting) Kind() dag.Kind                { return dag.KindImportSetting }
func (s *ImportSetting) InputSemantics() dag.Semantics { return dag.InputAny }

func (s *ImportSetting) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	n.AddDefaultOutputPoint()
}

// NeedsRevisit reports whether the settings asset itself changed.
func (s *ImportSetting) NeedsRevisit(_ *dag.Node, rc dag.RevisitContext) bool {
	return s.ConfigPath != "" && rc.Delta.Touches(s.ConfigPath)
}

func (s *ImportSetting) Clone() dag.Operation {
	return &ImportSetting{Settings: maps.Clone(s.Settings), ConfigPath: s.ConfigPath}
}

func (s *ImportSetting) meta(ec *dag.ExecContext, n *dag.Node) (map[string]string, error) {
	kv := make(map[string]string, len(s.Settings)+1)
	for _, k := range slices.Sorted(maps.Keys(s.Settings)) {
		kv[MetaImportPrefix+k] = s.Settings[k]
	}
	if s.ConfigPath == "" {
		return kv, nil
	}
	if err := errors.ValidatePath(s.ConfigPath); err != nil {
		return nil, errors.ConfigError(n.ID, n.Name, "invalid config path %q: %s", s.ConfigPath, errors.UserMessage(err))
	}
	if ec.Resolver == nil {
		return nil, errors.ConfigError(n.ID, n.Name, "config asset %s cannot be resolved", s.ConfigPath)
	}
	ref, ok, err := ec.Resolver.Resolve(s.ConfigPath)
	if err != nil {
		return nil, errors.BuildError(n.ID, n.Name, err, "resolve %s", s.ConfigPath)
	}
	if !ok {
		return nil, errors.ConfigError(n.ID, n.Name, "config asset not found: %s", s.ConfigPath)
	}
	kv[MetaImportConfig] = ref.Fingerprint
	return kv, nil
}

func (s *ImportSetting) run(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	kv, err := s.meta(ec, n)
	if err != nil {
		return err
	}
	in := merged(incoming)
	out := make(asset.GroupSet, len(in))
	for _, key := range in.Keys() {
		refs := make([]asset.Reference, len(in[key]))
		for i, r := range in[key] {
			refs[i] = r.WithMeta(kv)
		}
		out[key] = refs
	}
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (s *ImportSetting) Prepare(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return s.run(ec, n, incoming, outgoing, emit)
}

func (s *ImportSetting) Build(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return s.run(ec, n, incoming, outgoing, emit)
}
