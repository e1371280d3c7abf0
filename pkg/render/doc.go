// Package render draws build graphs as node-link diagrams.
//
// [ToDOT] produces Graphviz DOT source: one box per node labelled with its
// name and kind, one edge per connection labelled with the output point it
// leaves from. When a run report is supplied, nodes are coloured by their
// status and edges carry the number of assets that crossed them.
//
//	dot := render.ToDOT(g, render.Options{Report: rep})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [RenderSVG] uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no system installation is needed.
package render
