package node

import (
	"regexp"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Grouping regroups references by the path segment captured by the single
// '*' in Pattern. "Assets/Characters/*/" groups by character directory.
// References the pattern does not match are dropped.
type Grouping struct {
	Pattern PerTarget `json:"pattern"`
}

func (g *Grouping) Kind() dag.Kind                { return dag.KindGrouping }
func (g *Grouping) InputSemantics() dag.Semantics { return dag.InputAny }

func (g *Grouping) Initialize(n *dag.Node) {
	n.AddDefaultInputPoint()
	n.AddDefaultOutputPoint()
}

func (g *Grouping) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (g *Grouping) Clone() dag.Operation { return &Grouping{Pattern: g.Pattern.Clone()} }

// compileWildcard turns a pattern into a regular expression with one capture.
func compileWildcard(pattern string) *regexp.Regexp {
	before, after, _ := strings.Cut(pattern, "*")
	return regexp.MustCompile(regexp.QuoteMeta(before) + "([^/]+)" + regexp.QuoteMeta(after))
}

func (g *Grouping) run(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	pattern := g.Pattern.Get(ec.Target)
	if err := errors.ValidateWildcard(pattern); err != nil {
		return errors.ConfigError(n.ID, n.Name, "grouping pattern: %s", errors.UserMessage(err))
	}
	re := compileWildcard(pattern)

	in := merged(incoming)
	out := asset.GroupSet{}
	for _, key := range in.Keys() {
		for _, ref := range in[key] {
			m := re.FindStringSubmatch(ref.Path)
			if m == nil {
				continue
			}
			out[m[1]] = append(out[m[1]], ref)
		}
	}
	dag.EmitAll(outgoing, emit, out)
	return nil
}

func (g *Grouping) Prepare(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return g.run(ec, n, incoming, outgoing, emit)
}

func (g *Grouping) Build(ec *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	return g.run(ec, n, incoming, outgoing, emit)
}
