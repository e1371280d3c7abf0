package node

import (
	"encoding/json"
	"path"
	"slices"
	"strconv"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Supported bundle compressions.
const (
	CompressionNone = "none"
	CompressionLZ4  = "lz4"
	CompressionLZMA = "lzma"

	DefaultCompression = CompressionLZ4
)

var compressions = []string{CompressionNone, CompressionLZ4, CompressionLZMA}

// BundleBuilder writes one bundle manifest per group to
// <OutputDir>/<target>/<group>.bundle and emits a reference to each.
type BundleBuilder struct {
	OutputDir   PerTarget `json:"output_dir"`
	Compression string    `json:"compression,omitempty"`
}

// Manifest is the content of a bundle file.
type Manifest struct {
	Name        string            `json:"name"`
	Target      string            `json:"target"`
	Compression string            `json:"compression"`
	Assets      []ManifestEntry   `json:"assets"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// ManifestEntry is one asset inside a bundle.
type ManifestEntry struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
	Type        string `json:"type"`
}

func (b *BundleBuilder) Kind() dag.Kind                { return dag.KindBundleBuilder }
func (b *BundleBuilder) InputSemantics() dag.Semantics { return dag.InputAny }

func (b *BundleBuilder) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	n.AddDefaultOutputPoint()
}

// NeedsRevisit reports whether anything changed below the output directory,
// such as a bundle removed by hand.
func (b *BundleBuilder) NeedsRevisit(_ *dag.Node, rc dag.RevisitContext) bool {
	dir := b.OutputDir.Get(rc.Target)
	return dir != "" && rc.Delta.Touches(dir)
}

func (b *BundleBuilder) Clone() dag.Operation {
	return &BundleBuilder{OutputDir: b.OutputDir.Clone(), Compression: b.Compression}
}

func (b *BundleBuilder) compression() string {
	if b.Compression == "" {
		return DefaultCompression
	}
	return b.Compression
}

func (b *BundleBuilder) run(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit, write bool) error {
	dir := b.OutputDir.Get(ec.Target)
	if err := errors.ValidatePath(dir); err != nil {
		return errors.ConfigError(n.ID, n.Name, "output dir: %s", errors.UserMessage(err))
	}
	if !slices.Contains(compressions, b.compression()) {
		return errors.ConfigError(n.ID, n.Name, "unknown compression %q", b.Compression)
	}

	in := merged(incoming)
	out := make(asset.GroupSet, len(in))
	for _, key := range in.Keys() {
		if err := ec.Context().Err(); err != nil {
			return err
		}
		m := Manifest{Name: key, Target: string(ec.Target), Compression: b.compression()}
		for _, r := range in[key] {
			m.Assets = append(m.Assets, ManifestEntry{Path: r.Path, Fingerprint: r.Fingerprint, Type: r.Type})
			if v, ok := r.Meta[MetaVariants]; ok {
				m.Meta = map[string]string{MetaVariants: v}
			}
		}
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return errors.BuildError(n.ID, n.Name, err, "encode manifest %s", key)
		}

		p := path.Join(dir, string(ec.Target), key+".bundle")
		if write {
			if err := writeFile(ec, p, data); err != nil {
				return errors.BuildError(n.ID, n.Name, err, "write bundle %s", p)
			}
		}
		ref := asset.NewReference(p, cache.Hash(data))
		ref.Type = asset.TypeBundle
		out[key] = []asset.Reference{ref.WithMeta(map[string]string{
			MetaBundle:  key,
			MetaMembers: strconv.Itoa(len(m.Assets)),
		})}
	}
	ec.Log().Debug("bundles", "node", n.Name, "count", len(out), "write", write)
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (b *BundleBuilder) Prepare(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return b.run(ec, n, incoming, outgoing, emit, false)
}

func (b *BundleBuilder) Build(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return b.run(ec, n, incoming, outgoing, emit, true)
}
