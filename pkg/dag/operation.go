package dag

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlegraph/pkg/asset"
)

// RevisitContext is the input to [Operation.NeedsRevisit].
type RevisitContext struct {
	Target Target
	Delta  asset.Delta

	// Previous holds the node's cached outputs from its last successful
	// build, keyed by outgoing connection id ("" when emitted without a
	// connection). Nil when the node was never built.
	Previous map[string]asset.GroupSet

	// Resolver lets a node compare fingerprints of already-processed paths.
	// May be nil.
	Resolver asset.Resolver
}

// PreviousOutput merges every cached output of the node into one set.
func (rc RevisitContext) PreviousOutput() asset.GroupSet {
	if len(rc.Previous) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rc.Previous))
	for k := range rc.Previous {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	sets := make([]asset.GroupSet, 0, len(keys))
	for _, k := range keys {
		sets = append(sets, rc.Previous[k])
	}
	return asset.Merge(sets...)
}

// ExecContext carries run-wide values to Prepare and Build.
type ExecContext struct {
	Ctx         context.Context
	Target      Target
	Resolver    asset.Resolver
	ProjectRoot string
	Logger      *log.Logger
}

// Context returns ec.Ctx, or context.Background when unset.
func (ec *ExecContext) Context() context.Context {
	if ec == nil || ec.Ctx == nil {
		return context.Background()
	}
	return ec.Ctx
}

// Log returns ec.Logger, or a logger that discards everything when unset.
func (ec *ExecContext) Log() *log.Logger {
	if ec == nil || ec.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return ec.Logger
}

// Incoming is the group set delivered on one input connection.
type Incoming struct {
	Connection *Connection
	Groups     asset.GroupSet
}

// Emit publishes a node's output for one outgoing connection. A nil
// connection stands for "no consumer" and is used when the node has no
// outgoing connections.
type Emit func(c *Connection, groups asset.GroupSet)

// Operation is the behaviour of one node kind.
//
// NeedsRevisit must be a pure predicate over the node's own configuration
// and the delta; it must not fail. Prepare validates configuration and may
// emit the output it would produce, without persistent side effects. Build
// performs the transformation and its side effects and emits the final
// output. Both report fatal problems as *errors.NodeError.
type Operation interface {
	Kind() Kind
	InputSemantics() Semantics
	Initialize(n *Node)
	NeedsRevisit(n *Node, rc RevisitContext) bool
	Prepare(ec *ExecContext, n *Node, incoming []Incoming, outgoing []*Connection, emit Emit) error
	Build(ec *ExecContext, n *Node, incoming []Incoming, outgoing []*Connection, emit Emit) error
	Clone() Operation
}

// EmitAll emits groups on every outgoing connection, or once with a nil
// connection when there is none.
func EmitAll(outgoing []*Connection, emit Emit, groups asset.GroupSet) {
	if emit == nil {
		return
	}
	if len(outgoing) == 0 {
		emit(nil, groups)
		return
	}
	for _, c := range outgoing {
		emit(c, groups)
	}
}
