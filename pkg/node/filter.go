package node

import (
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// FilterRule selects references by glob pattern and type tag. Each rule owns
// one output point, found by Label.
//
// A Pattern without a slash is matched against the file name, otherwise
// against the whole path. An empty Pattern or Type matches everything.
type FilterRule struct {
	Pattern string `json:"pattern,omitempty"`
	Type    string `json:"type,omitempty"`
	Label   string `json:"label"`
}

// Matches reports whether ref satisfies the rule.
func (r FilterRule) Matches(ref asset.Reference) bool {
	if r.Type != "" && r.Type != ref.Type {
		return false
	}
	if r.Pattern == "" {
		return true
	}
	subject := ref.Name()
	if strings.Contains(r.Pattern, "/") {
		subject = ref.Path
	}
	ok, _ := path.Match(r.Pattern, subject)
	return ok
}

// Filter routes each incoming reference to the output of the first rule it
// matches. References matching no rule are dropped.
type Filter struct {
	Rules []FilterRule `json:"rules,omitempty"`
}

// NewFilter returns a filter with the given rules.
func NewFilter(rules ...FilterRule) *Filter { return &Filter{Rules: rules} }

func (f *Filter) Kind() dag.Kind                { return dag.KindFilter }
func (f *Filter) InputSemantics() dag.Semantics { return dag.InputAny }

// Initialize adds the default input and one output per rule.
func (f *Filter) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	for _, r := range f.Rules {
		if n.OutputByLabel(r.Label) == nil {
			n.AddOutputPoint(r.Label)
		}
	}
}

// AddRule appends a rule and its output point to n.
func (f *Filter) AddRule(n *dag.Node, r FilterRule) *dag.Point {
	f.Rules = append(f.Rules, r)
	return n.AddOutputPoint(r.Label)
}

func (f *Filter) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (f *Filter) Clone() dag.Operation {
	return &Filter{Rules: slices.Clone(f.Rules)}
}

func (f *Filter) validate(n *dag.Node) error {
	if len(f.Rules) == 0 {
		return errors.ConfigError(n.ID, n.Name, "no filter rules")
	}
	seen := make(map[string]bool, len(f.Rules))
	for i, r := range f.Rules {
		if r.Label == "" {
			return errors.ConfigError(n.ID, n.Name, "rule %d has no label", i)
		}
		if seen[r.Label] {
			return errors.ConfigError(n.ID, n.Name, "duplicate rule label %q", r.Label)
		}
		seen[r.Label] = true
		if _, err := path.Match(r.Pattern, ""); err != nil {
			return errors.ConfigError(n.ID, n.Name, "rule %q: bad pattern %q", r.Label, r.Pattern)
		}
		if n.OutputByLabel(r.Label) == nil {
			return errors.ConfigError(n.ID, n.Name, "rule %q has no output point", r.Label)
		}
	}
	return nil
}

// route splits the merged input into one group set per rule index.
func (f *Filter) route(in asset.GroupSet) []asset.GroupSet {
	out := make([]asset.GroupSet, len(f.Rules))
	for i := range out {
		out[i] = asset.GroupSet{}
	}
	for _, key := range in.Keys() {
		for _, ref := range in[key] {
			for i, r := range f.Rules {
				if r.Matches(ref) {
					out[i][key] = append(out[i][key], ref)
					break
				}
			}
		}
	}
	return out
}

func (f *Filter) run(n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	if err := f.validate(n); err != nil {
		return err
	}
	if emit == nil {
		return nil
	}
	routed := f.route(merged(incoming))
	if len(outgoing) == 0 {
		emit(nil, asset.Merge(routed...))
		return nil
	}
	for _, c := range outgoing {
		p := n.FindOutputPoint(c.FromPointID)
		if p == nil {
			continue
		}
		i := slices.IndexFunc(f.Rules, func(r FilterRule) bool { return r.Label == p.Label })
		if i < 0 {
			continue
		}
		emit(c, routed[i])
	}
	return nil
}

func (f *Filter) Prepare(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return f.run(n, incoming, outgoing, emit)
}

func (f *Filter) Build(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return f.run(n, incoming, outgoing, emit)
}
