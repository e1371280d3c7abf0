package dag_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/bundlegraph/pkg/dag"
	bgerrors "github.com/matzehuels/bundlegraph/pkg/errors"
)

func names(g *dag.Graph, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		n, _ := g.Node(id)
		out[i] = n.Name
	}
	return out
}

func TestConnectRejects(t *testing.T) {
	g := dag.NewGraph("t")
	load, a, b := source("load"), step("a"), step("b")
	mustAdd(g, load, a, b)
	if _, err := link(g, load, a); err != nil {
		t.Fatal(err)
	}
	if _, err := link(g, a, b); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"unknown point", "nope", b.Inputs[0].ID, dag.ErrUnknownPoint},
		{"input as source", a.Inputs[0].ID, b.Inputs[0].ID, dag.ErrDirection},
		{"output as destination", a.Outputs[0].ID, b.Outputs[0].ID, dag.ErrDirection},
		{"self loop", a.Outputs[0].ID, a.Inputs[0].ID, dag.ErrSelfLoop},
		{"cycle", b.Outputs[0].ID, a.Inputs[0].ID, dag.ErrCycle},
		{"source accepts no input", b.Outputs[0].ID, load.AddInputPoint("in").ID, dag.ErrNoInput},
		{"duplicate", a.Outputs[0].ID, b.Inputs[0].ID, dag.ErrDuplicateConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(g.Connections())
			if _, err := g.Connect(tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Fatalf("Connect() error = %v, want %v", err, tt.want)
			}
			if len(g.Connections()) != before {
				t.Error("rejected connection was added")
			}
		})
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFanOutFanIn(t *testing.T) {
	g := dag.NewGraph("t")
	load, a, b, sink := source("load"), step("a"), step("b"), step("sink")
	mustAdd(g, load, a, b, sink)
	for _, pair := range [][2]*dag.Node{{load, a}, {load, b}, {a, sink}, {b, sink}} {
		if _, err := link(g, pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	if got := names(g, g.Children(load.ID)); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Children = %v", got)
	}
	if got := names(g, g.Parents(sink.ID)); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Parents = %v", got)
	}
	if got := names(g, g.Descendants(load.ID)); !slices.Equal(got, []string{"a", "b", "sink"}) {
		t.Errorf("Descendants = %v", got)
	}
	if got := names(g, g.Ancestors(sink.ID)); !slices.Equal(got, []string{"load", "a", "b"}) {
		t.Errorf("Ancestors = %v", got)
	}
	if roots := g.Roots(); len(roots) != 1 || roots[0] != load {
		t.Errorf("Roots = %v", roots)
	}
}

func TestIncomingOrderedByPoint(t *testing.T) {
	g := dag.NewGraph("t")
	a, b, sink := source("a"), source("b"), step("sink")
	second := sink.AddInputPoint("second")
	mustAdd(g, a, b, sink)

	c1, err := g.Connect(a.Outputs[0].ID, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := g.Connect(b.Outputs[0].ID, sink.Inputs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	in := g.Incoming(sink.ID)
	if len(in) != 2 || in[0] != c2 || in[1] != c1 {
		t.Errorf("Incoming = %v, want default point first", in)
	}
}

func TestTopologicalOrderTiesByInsertion(t *testing.T) {
	g := dag.NewGraph("t")
	z, y, x := source("z"), step("y"), step("x")
	w := source("w")
	mustAdd(g, z, y, x, w)
	if _, err := link(g, z, x); err != nil {
		t.Fatal(err)
	}
	if _, err := link(g, w, y); err != nil {
		t.Fatal(err)
	}

	for range 5 {
		order, err := g.TopologicalOrder()
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, n := range order {
			got = append(got, n.Name)
		}
		if want := []string{"z", "x", "w", "y"}; !slices.Equal(got, want) {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRemoveKeepsIntegrity(t *testing.T) {
	g := dag.NewGraph("t")
	load, a, b := source("load"), step("a"), step("b")
	mustAdd(g, load, a, b)
	c1, _ := link(g, load, a)
	if _, err := link(g, a, b); err != nil {
		t.Fatal(err)
	}

	if err := g.RemoveNode(a.ID); err != nil {
		t.Fatal(err)
	}
	if len(g.Connections()) != 0 {
		t.Errorf("connections left: %d", len(g.Connections()))
	}
	if _, ok := g.Connection(c1.ID); ok {
		t.Error("connection index still holds removed connection")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := g.RemoveNode(a.ID); !errors.Is(err, dag.ErrUnknownNode) {
		t.Errorf("second RemoveNode = %v", err)
	}

	c, err := link(g, load, b)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RemovePoint(c.ToPointID); err != nil {
		t.Fatal(err)
	}
	if len(g.Connections()) != 0 || len(b.Inputs) != 0 {
		t.Error("RemovePoint left the connection or the point behind")
	}
	if g.RemoveConnection(c.ID) {
		t.Error("RemoveConnection reported removing a missing connection")
	}
}

func TestAddConnectionKeepsID(t *testing.T) {
	g := dag.NewGraph("t")
	load, a := source("load"), step("a")
	mustAdd(g, load, a)
	c := &dag.Connection{ID: "c-1", FromPointID: load.Outputs[0].ID, ToPointID: a.Inputs[0].ID}
	if err := g.AddConnection(c); err != nil {
		t.Fatal(err)
	}
	if c.FromNodeID != load.ID || c.ToNodeID != a.ID {
		t.Errorf("node ids not filled in: %+v", c)
	}
	if err := g.AddConnection(&dag.Connection{ID: "c-1"}); !errors.Is(err, dag.ErrDuplicateConnection) {
		t.Errorf("AddConnection(dup) = %v", err)
	}
}

func TestValidateNilOperation(t *testing.T) {
	g := dag.NewGraph("t")
	mustAdd(g, &dag.Node{ID: "bare", Name: "bare"})
	err := g.Validate()
	if !bgerrors.Is(err, bgerrors.ErrCodeGraphIntegrity) || !errors.Is(err, dag.ErrNilOperation) {
		t.Errorf("Validate() = %v", err)
	}
	if err := g.AddNode(&dag.Node{ID: "bare"}); !errors.Is(err, dag.ErrDuplicateNode) {
		t.Errorf("AddNode(dup) = %v", err)
	}
}

func TestRevisitContextPreviousOutput(t *testing.T) {
	var rc dag.RevisitContext
	if rc.PreviousOutput() != nil {
		t.Error("PreviousOutput of an unbuilt node should be nil")
	}
}
