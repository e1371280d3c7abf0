package engine

import (
	"time"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// Status is the terminal state of a node after a run.
type Status string

const (
	// StatusCached means the node's outputs are in the cache, either reused
	// or freshly built (see NodeResult.Built).
	StatusCached Status = "cached"
	// StatusFailed means Prepare or Build returned an error.
	StatusFailed Status = "failed"
	// StatusBlocked means an upstream node failed.
	StatusBlocked Status = "blocked"
	// StatusPrepared is used by Preview for nodes whose Prepare succeeded.
	StatusPrepared Status = "prepared"
	// StatusAborted means the run was cancelled before the node finished.
	StatusAborted Status = "aborted"
)

// NodeResult describes one node's part in a run.
type NodeResult struct {
	ID       string
	Name     string
	Kind     dag.Kind
	Status   Status
	Dirty    bool
	Reason   string
	Built    bool
	Duration time.Duration

	// Outputs holds the emitted group sets by connection id; "" holds the
	// output of a node without outgoing connections.
	Outputs map[string]asset.GroupSet
}

// NodeFailure is one error entry of a report.
type NodeFailure struct {
	NodeID  string
	Name    string
	Code    errors.Code
	Message string
	Err     error
}

// Report is the outcome of Run or Preview. Nodes are listed in execution
// order and errors in the order they occurred.
type Report struct {
	Graph    string
	Target   dag.Target
	Preview  bool
	Nodes    []NodeResult
	Errors   []NodeFailure
	Aborted  bool
	Duration time.Duration

	index  map[string]int
	inputs map[string][]dag.Incoming
}

func newReport(g *dag.Graph, target dag.Target, preview bool) *Report {
	return &Report{
		Graph:   g.Name,
		Target:  target,
		Preview: preview,
		index:   make(map[string]int),
		inputs:  make(map[string][]dag.Incoming),
	}
}

func (r *Report) add(res NodeResult, incoming []dag.Incoming) {
	r.index[res.ID] = len(r.Nodes)
	r.Nodes = append(r.Nodes, res)
	if incoming != nil {
		r.inputs[res.ID] = incoming
	}
}

func (r *Report) fail(ne *errors.NodeError) {
	msg := ne.Message
	if ne.Cause != nil {
		msg += ": " + ne.Cause.Error()
	}
	r.Errors = append(r.Errors, NodeFailure{
		NodeID:  ne.NodeID,
		Name:    ne.NodeName,
		Code:    ne.Code,
		Message: msg,
		Err:     ne,
	})
}

// upstreamBroken reports whether any parent failed or was blocked.
func (r *Report) upstreamBroken(g *dag.Graph, id string) bool {
	for _, p := range g.Parents(id) {
		switch r.Status(p) {
		case StatusFailed, StatusBlocked:
			return true
		}
	}
	return false
}

// Result returns the entry for a node.
func (r *Report) Result(id string) (NodeResult, bool) {
	i, ok := r.index[id]
	if !ok {
		return NodeResult{}, false
	}
	return r.Nodes[i], true
}

// Status returns a node's status, or "" when the node was not visited.
func (r *Report) Status(id string) Status {
	res, _ := r.Result(id)
	return res.Status
}

// Inputs returns the group sets delivered to a node, one per incoming
// connection.
func (r *Report) Inputs(id string) []dag.Incoming { return r.inputs[id] }

// BuildCount returns how many nodes ran Build successfully.
func (r *Report) BuildCount() int {
	n := 0
	for _, res := range r.Nodes {
		if res.Built {
			n++
		}
	}
	return n
}

// DirtyCount returns how many nodes were marked to revisit.
func (r *Report) DirtyCount() int {
	n := 0
	for _, res := range r.Nodes {
		if res.Dirty {
			n++
		}
	}
	return n
}

// Failed reports whether any node failed.
func (r *Report) Failed() bool { return len(r.Errors) > 0 }

// Count returns how many nodes ended in status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Nodes {
		if res.Status == s {
			n++
		}
	}
	return n
}
