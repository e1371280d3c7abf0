package engine_test

import (
	"testing"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
)

// fakeOp passes its merged inputs through, adds its own references, and
// records every Build call in a shared log.
type fakeOp struct {
	Setting string
	Refs    []string

	source     bool
	calls      *[]string
	revisit    func(rc dag.RevisitContext) bool
	prepareErr error
	buildErr   func() error
	panicIn    string
	quietBuild bool // Build emits nothing
}

func (o *fakeOp) Kind() dag.Kind { return dag.KindModifier }

func (o *fakeOp) InputSemantics() dag.Semantics {
	if o.source {
		return dag.InputNone
	}
	return dag.InputAny
}

func (o *fakeOp) Initialize(n *dag.Node) {
	if !o.source {
		n.AddDefaultInputPoint()
	}
	n.AddDefaultOutputPoint()
}

func (o *fakeOp) NeedsRevisit(_ *dag.Node, rc dag.RevisitContext) bool {
	if o.panicIn == "revisit" {
		panic("revisit")
	}
	return o.revisit != nil && o.revisit(rc)
}

func (o *fakeOp) output(incoming []dag.Incoming) asset.GroupSet {
	sets := make([]asset.GroupSet, 0, len(incoming)+1)
	for _, in := range incoming {
		sets = append(sets, in.Groups)
	}
	own := make([]asset.Reference, len(o.Refs))
	for i, p := range o.Refs {
		own[i] = asset.NewReference(p, "fp-"+p)
	}
	sets = append(sets, asset.Single(own))
	return asset.Merge(sets...)
}

func (o *fakeOp) Prepare(_ *dag.ExecContext, _ *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	if o.panicIn == "prepare" {
		panic("prepare")
	}
	if o.prepareErr != nil {
		return o.prepareErr
	}
	dag.EmitAll(outgoing, emit, o.output(incoming))
	return nil
}

func (o *fakeOp) Build(_ *dag.ExecContext, n *dag.Node, incoming []dag.Incoming, outgoing []*dag.Connection, emit dag.Emit) error {
	*o.calls = append(*o.calls, n.Name)
	if o.buildErr != nil {
		if err := o.buildErr(); err != nil {
			return err
		}
	}
	if !o.quietBuild {
		dag.EmitAll(outgoing, emit, o.output(incoming))
	}
	return nil
}

func (o *fakeOp) Clone() dag.Operation {
	cp := *o
	return &cp
}

// fixture builds graphs of fake operations.
type fixture struct {
	t     *testing.T
	g     *dag.Graph
	calls []string
	nodes map[string]*dag.Node
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, g: dag.NewGraph("test"), nodes: map[string]*dag.Node{}}
}

func (f *fixture) source(name string, refs ...string) *fakeOp {
	return f.add(name, &fakeOp{source: true, Refs: refs})
}

func (f *fixture) step(name string) *fakeOp {
	return f.add(name, &fakeOp{})
}

func (f *fixture) add(name string, op *fakeOp) *fakeOp {
	op.calls = &f.calls
	n := dag.NewNode(name, op, 0, 0)
	if err := f.g.AddNode(n); err != nil {
		f.t.Fatal(err)
	}
	f.nodes[name] = n
	return op
}

func (f *fixture) link(from, to string) *dag.Connection {
	f.t.Helper()
	c, err := f.g.Connect(f.nodes[from].AddDefaultOutputPoint().ID, f.nodes[to].AddDefaultInputPoint().ID)
	if err != nil {
		f.t.Fatal(err)
	}
	return c
}

func (f *fixture) id(name string) string { return f.nodes[name].ID }

func (f *fixture) reset() { f.calls = f.calls[:0] }
