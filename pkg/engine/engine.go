package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/observability"
)

// DefaultProjectRoot is used when Options.ProjectRoot is empty.
const DefaultProjectRoot = "."

// Options configures an Engine.
type Options struct {
	// ProjectRoot is the directory asset paths are relative to.
	ProjectRoot string

	// Resolver resolves asset paths. Defaults to a FileResolver on
	// ProjectRoot.
	Resolver asset.Resolver

	// Cache persists the output cache for Save and Load. Defaults to a
	// NullCache.
	Cache cache.Cache

	// Keyer derives cache keys. Defaults to cache.DefaultKeyer.
	Keyer cache.Keyer

	// CacheTTL is the expiration of saved output caches.
	CacheTTL time.Duration

	// Logger receives revisit and failure messages. Defaults to a logger
	// that discards everything.
	Logger *log.Logger
}

// SetDefaults fills in unset fields.
func (o *Options) SetDefaults() {
	if o.ProjectRoot == "" {
		o.ProjectRoot = DefaultProjectRoot
	}
	if o.Resolver == nil {
		o.Resolver = asset.NewFileResolver(o.ProjectRoot)
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.TTLOutputs
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Engine runs graphs and keeps the per-node output cache between runs.
type Engine struct {
	opts    Options
	outputs map[string]*entry
}

// New creates an engine with an empty output cache.
func New(opts Options) *Engine {
	opts.SetDefaults()
	return &Engine{opts: opts, outputs: make(map[string]*entry)}
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *log.Logger { return e.opts.Logger }

func (e *Engine) execContext(ctx context.Context, target dag.Target) *dag.ExecContext {
	return &dag.ExecContext{
		Ctx:         ctx,
		Target:      target,
		Resolver:    e.opts.Resolver,
		ProjectRoot: e.opts.ProjectRoot,
		Logger:      e.opts.Logger,
	}
}

// Run executes g for target against the file delta.
//
// Node failures do not make Run fail; they are listed in the report. Run
// returns an error only for an invalid graph or a cancelled context, and in
// the latter case also returns the partial report.
func (e *Engine) Run(ctx context.Context, target dag.Target, g *dag.Graph, delta asset.Delta) (*Report, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCycle, err, "graph %q", g.Name)
	}

	start := time.Now()
	hooks := observability.Engine()
	hooks.OnRunStart(ctx, g.Name, string(target), len(order))

	rep := newReport(g, target, false)
	marks := e.revisit(ctx, target, g, order, delta)
	ec := e.execContext(ctx, target)

	// outputs emitted during this run, by node and connection
	flow := make(map[string]map[string]asset.GroupSet, len(order))

	for i, n := range order {
		if ctx.Err() != nil {
			e.abort(rep, order[i:], marks)
			break
		}
		mark := marks[n.ID]
		res := NodeResult{ID: n.ID, Name: n.Name, Kind: n.Kind(), Dirty: mark.dirty, Reason: mark.reason}
		nodeStart := time.Now()

		if rep.upstreamBroken(g, n.ID) {
			res.Status = StatusBlocked
			e.Invalidate(n.ID)
			rep.add(res, nil)
			hooks.OnNodeComplete(ctx, n.ID, string(n.Kind()), string(res.Status), 0, nil)
			continue
		}

		incoming := gather(g, n.ID, flow)
		if !mark.dirty {
			outs := e.outputs[n.ID].Outputs
			flow[n.ID] = outs
			res.Status = StatusCached
			res.Outputs = cloneOutputs(outs)
			rep.add(res, incoming)
			hooks.OnNodeComplete(ctx, n.ID, string(n.Kind()), string(res.Status), 0, nil)
			continue
		}

		outs, err := e.execute(ec, g, n, incoming, true)
		res.Duration = time.Since(nodeStart)
		if err != nil && ctx.Err() != nil {
			e.abort(rep, order[i:], marks)
			break
		}
		if err != nil {
			ne := asNodeError(n, err)
			res.Status = StatusFailed
			e.Invalidate(n.ID)
			rep.fail(ne)
			e.opts.Logger.Error("node failed", "node", n.Name, "id", n.ID, "err", ne.Message)
		} else {
			e.outputs[n.ID] = &entry{Signature: signature(g, n, target), Outputs: outs}
			flow[n.ID] = outs
			res.Status = StatusCached
			res.Built = true
			res.Outputs = cloneOutputs(outs)
		}
		rep.add(res, incoming)
		hooks.OnNodeComplete(ctx, n.ID, string(n.Kind()), string(res.Status), res.Duration, err)
	}

	rep.Duration = time.Since(start)
	if rep.Aborted {
		hooks.OnRunComplete(ctx, g.Name, string(target), rep.BuildCount(), len(rep.Errors), rep.Duration, ctx.Err())
		return rep, ctx.Err()
	}
	hooks.OnRunComplete(ctx, g.Name, string(target), rep.BuildCount(), len(rep.Errors), rep.Duration, nil)
	return rep, nil
}

// Preview runs Prepare on every node and reports the group sets that would
// flow, without calling Build or touching the output cache.
func (e *Engine) Preview(ctx context.Context, target dag.Target, g *dag.Graph) (*Report, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCycle, err, "graph %q", g.Name)
	}

	start := time.Now()
	rep := newReport(g, target, true)
	ec := e.execContext(ctx, target)
	flow := make(map[string]map[string]asset.GroupSet, len(order))

	for _, n := range order {
		if err := ctx.Err(); err != nil {
			rep.Aborted = true
			rep.Duration = time.Since(start)
			return rep, err
		}
		res := NodeResult{ID: n.ID, Name: n.Name, Kind: n.Kind()}
		if rep.upstreamBroken(g, n.ID) {
			res.Status = StatusBlocked
			rep.add(res, nil)
			continue
		}
		incoming := gather(g, n.ID, flow)
		nodeStart := time.Now()
		outs, err := e.execute(ec, g, n, incoming, false)
		res.Duration = time.Since(nodeStart)
		if err != nil {
			res.Status = StatusFailed
			rep.fail(asNodeError(n, err))
		} else {
			flow[n.ID] = outs
			res.Status = StatusPrepared
			res.Outputs = cloneOutputs(outs)
		}
		rep.add(res, incoming)
	}
	rep.Duration = time.Since(start)
	return rep, nil
}

// execute runs Prepare and, when build is set, Build on one node and
// returns what it emitted. Build's emissions replace Prepare's entirely.
// Panics are turned into BUILD errors.
func (e *Engine) execute(ec *dag.ExecContext, g *dag.Graph, n *dag.Node, incoming []dag.Incoming, build bool) (outs map[string]asset.GroupSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			outs = nil
			err = errors.NewNodeError(errors.ErrCodeBuild, n.ID, n.Name, "panic: %v", r)
		}
	}()

	outgoing := g.Outgoing(n.ID)
	outs = make(map[string]asset.GroupSet)
	emit := func(c *dag.Connection, groups asset.GroupSet) {
		outs[connKey(c)] = groups.Clone()
	}

	if err := n.Operation.Prepare(ec, n, incoming, outgoing, emit); err != nil {
		return nil, err
	}
	if !build {
		return outs, nil
	}
	if err := ec.Context().Err(); err != nil {
		return nil, err
	}
	clear(outs)
	if err := n.Operation.Build(ec, n, incoming, outgoing, emit); err != nil {
		return nil, err
	}
	return outs, nil
}

// abort discards the in-flight node and drops the cache entries of every
// dirty node that was not committed.
func (e *Engine) abort(rep *Report, rest []*dag.Node, marks map[string]revisitMark) {
	rep.Aborted = true
	for _, n := range rest {
		if marks[n.ID].dirty {
			e.Invalidate(n.ID)
		}
		rep.add(NodeResult{
			ID: n.ID, Name: n.Name, Kind: n.Kind(),
			Status: StatusAborted, Dirty: marks[n.ID].dirty, Reason: marks[n.ID].reason,
		}, nil)
	}
	e.opts.Logger.Warn("run aborted", "pending", len(rest))
}

// gather collects the group sets flowing into a node, one per connection,
// in point order.
func gather(g *dag.Graph, id string, flow map[string]map[string]asset.GroupSet) []dag.Incoming {
	conns := g.Incoming(id)
	out := make([]dag.Incoming, 0, len(conns))
	for _, c := range conns {
		groups := flow[c.FromNodeID][c.ID].Clone()
		if groups == nil {
			groups = asset.GroupSet{}
		}
		out = append(out, dag.Incoming{Connection: c, Groups: groups})
	}
	return out
}

func asNodeError(n *dag.Node, err error) *errors.NodeError {
	if ne, ok := errors.AsNodeError(err); ok {
		if ne.NodeID == "" {
			ne.NodeID, ne.NodeName = n.ID, n.Name
		}
		return ne
	}
	return errors.BuildError(n.ID, n.Name, err, "build failed")
}
