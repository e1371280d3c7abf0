// Package engine executes a bundle graph incrementally.
//
// # Overview
//
// An [Engine] owns an output cache: for every node, the group sets it
// emitted per outgoing connection the last time it built, plus a signature
// of the configuration that produced them. A [Engine.Run] then proceeds in
// two passes over the topological order of the graph:
//
//  1. Revisit: a node is dirty if it has no cached output, its signature
//     changed, its operation's NeedsRevisit reports that the file delta
//     affects it, or any upstream node is dirty.
//  2. Build: clean nodes reuse their cached outputs. Dirty nodes run Prepare
//     then Build, and their outputs replace the cache entry.
//
// Each node receives one [dag.Incoming] per incoming connection. The engine
// never merges inputs; that is up to the operation.
//
// # Failures
//
// A node whose Prepare or Build fails is reported as failed, every node
// downstream of it as blocked, and the cache entries of both are dropped so
// they run again next time. Independent branches still build.
//
// # Cancellation
//
// The context is checked between node visits. When it is done the node in
// flight is discarded, every dirty node not yet committed loses its cache
// entry, and Run returns the partial report with Aborted set together with
// the context's error.
//
// # Persistence
//
// [Engine.Save] and [Engine.Load] move the output cache through a
// [cache.Cache] backend, so separate processes stay incremental.
//
// An Engine is not safe for concurrent use.
package engine
