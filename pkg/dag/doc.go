// Package dag provides the bundle graph data model: nodes, their typed
// connection points, the connections between them, and the operation
// contract every node kind implements.
//
// # Overview
//
// A [Graph] owns every [Node] and [Connection]. A node owns its input and
// output [Point] lists and delegates all behaviour to exactly one
// [Operation]. Points refer back to their node by id only, and connections
// refer to both endpoints by id, so there are no ownership cycles between
// the three types.
//
// # Basic Usage
//
//	g := dag.NewGraph("textures")
//	load := dag.NewNode("Load", loader, 0, 0)
//	exp := dag.NewNode("Export", exporter, 200, 0)
//	_ = g.AddNode(load)
//	_ = g.AddNode(exp)
//	_, err := g.Connect(load.AddDefaultOutputPoint().ID, exp.AddDefaultInputPoint().ID)
//
// # Invariants
//
// Every structural mutation keeps two invariants:
//
//  1. Every connection's endpoints resolve to points on nodes in the graph.
//     Removing a node or point removes its connections in the same call.
//  2. The graph is acyclic. [Graph.Connect] rejects a connection whose
//     destination is an ancestor of its source.
//
// [Graph.Validate] re-checks both, plus the presence of each node's
// operation, and reports violations as GRAPH_INTEGRITY or CYCLE errors.
//
// # Determinism
//
// Nodes and connections keep insertion order. [Graph.TopologicalOrder] uses
// Kahn's algorithm and breaks ties by insertion order, and
// [Graph.Incoming] / [Graph.Outgoing] list connections by point order, so
// traversal is identical across runs.
//
// # Concurrency
//
// Graphs are not safe for concurrent use. The surrounding editing session
// must not mutate a graph while an engine run is in progress.
package dag
