package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/observability"
)

// snapshotVersion is bumped whenever the saved format changes; older
// snapshots are ignored.
const snapshotVersion = 1

// entry is the cached result of one node.
type entry struct {
	Signature string                    `json:"signature"`
	Outputs   map[string]asset.GroupSet `json:"outputs"`
}

type snapshot struct {
	Version int               `json:"version"`
	Entries map[string]*entry `json:"entries"`
}

// connKey is the output map key for a connection; nil maps to "".
func connKey(c *dag.Connection) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// signature identifies everything about a node that its cached output
// depends on besides its inputs: target, kind, settings and connections.
func signature(g *dag.Graph, n *dag.Node, target dag.Target) string {
	settings, err := json.Marshal(n.Operation)
	if err != nil {
		settings = []byte(err.Error())
	}
	parts := []string{string(target), string(n.Kind()), string(settings), "in"}
	for _, c := range g.Incoming(n.ID) {
		parts = append(parts, c.ID)
	}
	parts = append(parts, "out")
	for _, c := range g.Outgoing(n.ID) {
		parts = append(parts, c.ID)
	}
	return cache.HashStrings(parts...)
}

func cloneOutputs(outs map[string]asset.GroupSet) map[string]asset.GroupSet {
	if outs == nil {
		return nil
	}
	cp := make(map[string]asset.GroupSet, len(outs))
	for k, v := range outs {
		cp[k] = v.Clone()
	}
	return cp
}

// Outputs returns a copy of a node's cached outputs by connection id.
func (e *Engine) Outputs(nodeID string) (map[string]asset.GroupSet, bool) {
	c, ok := e.outputs[nodeID]
	if !ok {
		return nil, false
	}
	return cloneOutputs(c.Outputs), true
}

// Invalidate drops a node's cached outputs, so it runs on the next Run.
func (e *Engine) Invalidate(nodeID string) {
	delete(e.outputs, nodeID)
}

// Clear drops the whole output cache.
func (e *Engine) Clear() {
	clear(e.outputs)
}

// Cached returns the ids of nodes with cached outputs, sorted.
func (e *Engine) Cached() []string {
	return slices.Sorted(maps.Keys(e.outputs))
}

// outputKey scopes the saved cache to the project tree, so checkouts
// sharing a backend never restore each other's outputs.
func (e *Engine) outputKey(g *dag.Graph, target dag.Target) string {
	root := e.opts.ProjectRoot
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return e.opts.Keyer.OutputKey(root, g.ID, string(target))
}

// Save stores the output cache for g and target in the cache backend.
func (e *Engine) Save(ctx context.Context, g *dag.Graph, target dag.Target) error {
	snap := snapshot{Version: snapshotVersion, Entries: make(map[string]*entry, len(e.outputs))}
	for _, n := range g.Nodes() {
		if c, ok := e.outputs[n.ID]; ok {
			snap.Entries[n.ID] = c
		}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode output cache: %w", err)
	}
	key := e.outputKey(g, target)
	if err := e.opts.Cache.Set(ctx, key, data, e.opts.CacheTTL); err != nil {
		return fmt.Errorf("save output cache: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, "outputs", len(data))
	return nil
}

// Load replaces the output cache with the one saved for g and target.
// It reports whether a usable snapshot was found. Entries for nodes no
// longer in g are dropped.
func (e *Engine) Load(ctx context.Context, g *dag.Graph, target dag.Target) (bool, error) {
	key := e.outputKey(g, target)
	data, ok, err := e.opts.Cache.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load output cache: %w", err)
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "outputs")
		return false, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Version != snapshotVersion {
		e.opts.Logger.Warn("ignoring unreadable output cache", "graph", g.Name)
		observability.Cache().OnCacheMiss(ctx, "outputs")
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, "outputs")

	e.Clear()
	for id, c := range snap.Entries {
		if _, ok := g.Node(id); ok && c != nil {
			e.outputs[id] = c
		}
	}
	return true, nil
}
