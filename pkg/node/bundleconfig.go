package node

import (
	"slices"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Meta keys written by BundleConfigurator.
const (
	MetaBundle   = "bundle"
	MetaVariants = "variants"
)

// BundleConfigurator names bundles. Each group key is substituted for the
// '*' in BundleNameTemplate and becomes the bundle name; every reference is
// tagged with its bundle and the configured variants.
type BundleConfigurator struct {
	BundleNameTemplate string   `json:"bundle_name_template"`
	Variants           []string `json:"variants,omitempty"`
}

func (c *BundleConfigurator) Kind() dag.Kind                { return dag.KindBundleConfigurator }
func (c *BundleConfigurator) InputSemantics() dag.Semantics { return dag.InputAny }

func (c *BundleConfigurator) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	n.AddDefaultOutputPoint()
}

func (c *BundleConfigurator) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (c *BundleConfigurator) Clone() dag.Operation {
	return &BundleConfigurator{BundleNameTemplate: c.BundleNameTemplate, Variants: slices.Clone(c.Variants)}
}

// BundleName returns the bundle name for a group key.
func (c *BundleConfigurator) BundleName(key string) string {
	return strings.Replace(c.BundleNameTemplate, "*", key, 1)
}

func (c *BundleConfigurator) run(n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	if err := errors.ValidateWildcard(c.BundleNameTemplate); err != nil {
		return errors.ConfigError(n.ID, n.Name, "bundle name template: %s", errors.UserMessage(err))
	}
	for _, v := range c.Variants {
		if v == "" || strings.ContainsAny(v, "/*") {
			return errors.ConfigError(n.ID, n.Name, "invalid variant name %q", v)
		}
	}

	in := merged(incoming)
	out := make(asset.GroupSet, len(in))
	for _, key := range in.Keys() {
		name := c.BundleName(key)
		kv := map[string]string{MetaBundle: name}
		if len(c.Variants) > 0 {
			kv[MetaVariants] = strings.Join(c.Variants, ",")
		}
		refs := make([]asset.Reference, len(in[key]))
		for i, r := range in[key] {
			refs[i] = r.WithMeta(kv)
		}
		out[name] = refs
	}
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (c *BundleConfigurator) Prepare(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return c.run(n, incoming, outgoing, emit)
}

func (c *BundleConfigurator) Build(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return c.run(n, incoming, outgoing, emit)
}
