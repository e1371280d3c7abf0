// Package pkg holds the bundlegraph libraries.
//
// bundlegraph runs an asset pipeline described as a directed acyclic graph
// of processing nodes and rebuilds only what a file change affects. The
// packages are layered:
//
//  1. [asset] - asset references, group sets, file deltas and resolvers
//  2. [dag] - the graph model: nodes, connection points, connections and
//     the operation contract every node kind implements
//  3. [node] - the built-in node kinds (Loader, Filter, BundleBuilder, ...)
//  4. [engine] - incremental execution with a per-node output cache
//  5. [graphio], [legacy] - JSON/TOML persistence and version 1 migration
//  6. [cache], [config], [observability], [render] - supporting infrastructure
//
// # Data Flow
//
//	graph file ──graphio──▶ dag.Graph
//	file delta ──────────▶ engine.Run ──▶ engine.Report
//	                            │
//	                  revisit ▶ Prepare ▶ Build (dirty nodes only)
//	                            │
//	                    output cache ◀──▶ cache.Cache (file, redis)
//
// # Quick Start
//
//	g, err := graphio.ReadFile("Assets/BundleGraph/main.toml")
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(engine.Options{ProjectRoot: "."})
//	rep, err := eng.Run(ctx, "standalone", g, asset.Delta{
//	    Imported: []string{"Assets/Textures/hero.png"},
//	})
//
// [asset]: github.com/matzehuels/bundlegraph/pkg/asset
// [dag]: github.com/matzehuels/bundlegraph/pkg/dag
// [node]: github.com/matzehuels/bundlegraph/pkg/node
// [engine]: github.com/matzehuels/bundlegraph/pkg/engine
// [graphio]: github.com/matzehuels/bundlegraph/pkg/graphio
// [legacy]: github.com/matzehuels/bundlegraph/pkg/legacy
// [cache]: github.com/matzehuels/bundlegraph/pkg/cache
// [config]: github.com/matzehuels/bundlegraph/pkg/config
// [observability]: github.com/matzehuels/bundlegraph/pkg/observability
// [render]: github.com/matzehuels/bundlegraph/pkg/render
package pkg
