package dag_test

import "github.com/matzehuels/bundlegraph/pkg/dag"

// stubOp is a minimal operation used to build graphs in tests.
type stubOp struct {
	kind     dag.Kind
	source   bool
	settings []string
}

func (o *stubOp) Kind() dag.Kind { return o.kind }

func (o *stubOp) InputSemantics() dag.Semantics {
	if o.source {
		return dag.InputNone
	}
	return dag.InputAny
}

func (o *stubOp) Initialize(n *dag.Node) {
	if !o.source {
		n.AddDefaultInputPoint()
	}
	n.AddDefaultOutputPoint()
}

func (o *stubOp) NeedsRevisit(*dag.Node, dag.RevisitContext) bool { return false }

func (o *stubOp) Prepare(*dag.ExecContext, *dag.Node, []dag.Incoming, []*dag.Connection, dag.Emit) error {
	return nil
}

func (o *stubOp) Build(*dag.ExecContext, *dag.Node, []dag.Incoming, []*dag.Connection, dag.Emit) error {
	return nil
}

func (o *stubOp) Clone() dag.Operation {
	cp := *o
	cp.settings = append([]string(nil), o.settings...)
	return &cp
}

func source(name string) *dag.Node {
	return dag.NewNode(name, &stubOp{kind: dag.KindLoader, source: true}, 0, 0)
}

func step(name string) *dag.Node {
	return dag.NewNode(name, &stubOp{kind: dag.KindFilter}, 0, 0)
}

func link(g *dag.Graph, from, to *dag.Node) (*dag.Connection, error) {
	return g.Connect(from.AddDefaultOutputPoint().ID, to.AddDefaultInputPoint().ID)
}

func mustAdd(g *dag.Graph, nodes ...*dag.Node) {
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			panic(err)
		}
	}
}
