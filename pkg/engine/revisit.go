package engine

import (
	"context"
	"fmt"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/observability"
)

// Revisit reasons, in the order they are checked.
const (
	ReasonNoOutput     = "no cached output"
	ReasonConfigChange = "configuration changed"
	ReasonAssetChange  = "asset change"
	ReasonUpstream     = "upstream changed"
	ReasonPanic        = "revisit check panicked"
)

type revisitMark struct {
	dirty  bool
	reason string
}

// revisit decides which nodes must run, in one pass over the topological
// order. Dirtiness only ever flows downstream.
func (e *Engine) revisit(ctx context.Context, target dag.Target, g *dag.Graph, order []*dag.Node, delta asset.Delta) map[string]revisitMark {
	marks := make(map[string]revisitMark, len(order))
	for _, n := range order {
		reason := e.revisitReason(target, g, n, delta, marks)
		if reason == "" {
			marks[n.ID] = revisitMark{}
			continue
		}
		marks[n.ID] = revisitMark{dirty: true, reason: reason}
		e.opts.Logger.Info("marked to revisit", "node", n.Name, "id", n.ID, "reason", reason)
		observability.Engine().OnNodeRevisit(ctx, n.ID, n.Name, reason)
	}
	return marks
}

func (e *Engine) revisitReason(target dag.Target, g *dag.Graph, n *dag.Node, delta asset.Delta, marks map[string]revisitMark) string {
	cached, ok := e.outputs[n.ID]
	if !ok {
		return ReasonNoOutput
	}
	if cached.Signature != signature(g, n, target) {
		return ReasonConfigChange
	}
	for _, p := range g.Parents(n.ID) {
		if marks[p].dirty {
			return ReasonUpstream
		}
	}
	rc := dag.RevisitContext{
		Target:   target,
		Delta:    delta,
		Previous: cached.Outputs,
		Resolver: e.opts.Resolver,
	}
	dirty, err := e.needsRevisit(n, rc)
	if err != nil {
		e.opts.Logger.Warn("revisit check failed", "node", n.Name, "id", n.ID, "err", err)
		return ReasonPanic
	}
	if dirty {
		return ReasonAssetChange
	}
	return ""
}

// needsRevisit calls the operation's predicate, recovering from panics.
func (e *Engine) needsRevisit(n *dag.Node, rc dag.RevisitContext) (dirty bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			dirty, err = true, fmt.Errorf("panic: %v", r)
		}
	}()
	return n.Operation.NeedsRevisit(n, rc), nil
}
