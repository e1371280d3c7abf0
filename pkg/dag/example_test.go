package dag_test

import (
	"fmt"

	"github.com/matzehuels/bundlegraph/pkg/dag"
)

func ExampleGraph_TopologicalOrder() {
	g := dag.NewGraph("textures")
	load := dag.NewNode("Load", &stubOp{kind: dag.KindLoader, source: true}, 0, 0)
	filter := dag.NewNode("Filter", &stubOp{kind: dag.KindFilter}, 200, 0)
	export := dag.NewNode("Export", &stubOp{kind: dag.KindExporter}, 400, 0)
	_ = g.AddNode(export)
	_ = g.AddNode(filter)
	_ = g.AddNode(load)
	_, _ = g.Connect(load.AddDefaultOutputPoint().ID, filter.AddDefaultInputPoint().ID)
	_, _ = g.Connect(filter.AddDefaultOutputPoint().ID, export.AddDefaultInputPoint().ID)

	order, _ := g.TopologicalOrder()
	for _, n := range order {
		fmt.Println(n.Name, n.Kind())
	}
	// Output:
	// Load Loader
	// Filter Filter
	// Export Exporter
}

func ExampleGraph_Connect_cycle() {
	g := dag.NewGraph("loop")
	a := dag.NewNode("A", &stubOp{kind: dag.KindFilter}, 0, 0)
	b := dag.NewNode("B", &stubOp{kind: dag.KindFilter}, 0, 0)
	_ = g.AddNode(a)
	_ = g.AddNode(b)
	_, _ = g.Connect(a.Outputs[0].ID, b.Inputs[0].ID)

	_, err := g.Connect(b.Outputs[0].ID, a.Inputs[0].ID)
	fmt.Println(err)
	// Output:
	// graph contains a cycle
}
