package dag

import (
	"errors"
	"slices"

	bgerrors "github.com/matzehuels/bundlegraph/pkg/errors"
)

var (
	// ErrUnknownNode is returned when a node id is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPoint is returned when a point id does not resolve to a
	// point on a node of the graph.
	ErrUnknownPoint = errors.New("unknown connection point")

	// ErrDirection is returned by [Graph.Connect] when the source is not an
	// output point or the destination is not an input point.
	ErrDirection = errors.New("connection must run from an output to an input")

	// ErrSelfLoop is returned by [Graph.Connect] when both endpoints belong
	// to the same node.
	ErrSelfLoop = errors.New("connection endpoints belong to the same node")

	// ErrCycle is returned when a connection would close a cycle, and by
	// [Graph.Validate] and [Graph.TopologicalOrder] when one exists.
	ErrCycle = errors.New("graph contains a cycle")

	// ErrNoInput is returned by [Graph.Connect] when the destination node's
	// operation accepts no input.
	ErrNoInput = errors.New("node accepts no input")

	// ErrDuplicateNode is returned by [Graph.AddNode] for an id already in use.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrDuplicateConnection is returned when a connection id is already in
	// use, or the same two points are already connected.
	ErrDuplicateConnection = errors.New("duplicate connection")

	// ErrNilOperation is reported by [Graph.Validate] for a node without an
	// operation.
	ErrNilOperation = errors.New("node has no operation")

	// ErrDanglingConnection is reported by [Graph.Validate] for a connection
	// whose endpoints do not resolve.
	ErrDanglingConnection = errors.New("connection endpoint does not resolve")
)

// Graph owns the nodes and connections of one asset pipeline.
type Graph struct {
	ID   string
	Name string

	nodes     []*Node
	nodeIndex map[string]*Node
	conns     []*Connection
	connIndex map[string]*Connection
}

// NewGraph creates an empty graph with a fresh id.
func NewGraph(name string) *Graph {
	return &Graph{
		ID:        NewID(),
		Name:      name,
		nodeIndex: make(map[string]*Node),
		connIndex: make(map[string]*Connection),
	}
}

func (g *Graph) init() {
	if g.nodeIndex == nil {
		g.nodeIndex = make(map[string]*Node)
	}
	if g.connIndex == nil {
		g.connIndex = make(map[string]*Connection)
	}
}

// AddNode inserts n. Point back references are reset to n's id.
func (g *Graph) AddNode(n *Node) error {
	g.init()
	if n == nil || n.ID == "" {
		return ErrUnknownNode
	}
	if _, ok := g.nodeIndex[n.ID]; ok {
		return ErrDuplicateNode
	}
	for _, p := range n.Inputs {
		p.NodeID = n.ID
	}
	for _, p := range n.Outputs {
		p.NodeID = n.ID
	}
	g.nodes = append(g.nodes, n)
	g.nodeIndex[n.ID] = n
	return nil
}

// RemoveNode removes a node and every connection touching it.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodeIndex[id]; !ok {
		return ErrUnknownNode
	}
	g.removeConnsWhere(func(c *Connection) bool {
		return c.FromNodeID == id || c.ToNodeID == id
	})
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool { return n.ID == id })
	delete(g.nodeIndex, id)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Connections returns all connections in insertion order.
func (g *Graph) Connections() []*Connection { return slices.Clone(g.conns) }

// Connection returns the connection with the given id.
func (g *Graph) Connection(id string) (*Connection, bool) {
	c, ok := g.connIndex[id]
	return c, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// FindPoint locates a point anywhere in the graph.
func (g *Graph) FindPoint(id string) (*Node, *Point, bool) {
	for _, n := range g.nodes {
		if p := n.FindPoint(id); p != nil {
			return n, p, true
		}
	}
	return nil, nil, false
}

// Connect adds a connection from an output point to an input point and
// returns it. The connection is rejected if it would make the graph cyclic.
func (g *Graph) Connect(fromPointID, toPointID string) (*Connection, error) {
	c := &Connection{ID: NewID(), FromPointID: fromPointID, ToPointID: toPointID}
	if err := g.AddConnection(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddConnection inserts a connection that already carries an id, as loaders
// do. Node ids are filled in from the points when empty. The same checks as
// [Graph.Connect] apply.
func (g *Graph) AddConnection(c *Connection) error {
	g.init()
	if c.ID == "" {
		c.ID = NewID()
	}
	if _, ok := g.connIndex[c.ID]; ok {
		return ErrDuplicateConnection
	}
	from, fp, ok := g.FindPoint(c.FromPointID)
	if !ok {
		return ErrUnknownPoint
	}
	to, tp, ok := g.FindPoint(c.ToPointID)
	if !ok {
		return ErrUnknownPoint
	}
	if fp.IsInput || !tp.IsInput {
		return ErrDirection
	}
	if from.ID == to.ID {
		return ErrSelfLoop
	}
	if to.Operation != nil && to.Operation.InputSemantics() == InputNone {
		return ErrNoInput
	}
	for _, e := range g.conns {
		if e.FromPointID == c.FromPointID && e.ToPointID == c.ToPointID {
			return ErrDuplicateConnection
		}
	}
	if g.reaches(to.ID, from.ID) {
		return ErrCycle
	}
	c.FromNodeID = from.ID
	c.ToNodeID = to.ID
	g.conns = append(g.conns, c)
	g.connIndex[c.ID] = c
	return nil
}

// RemoveConnection deletes a connection by id.
func (g *Graph) RemoveConnection(id string) bool {
	if _, ok := g.connIndex[id]; !ok {
		return false
	}
	g.removeConnsWhere(func(c *Connection) bool { return c.ID == id })
	return true
}

// RemovePoint deletes a point from its node together with its connections.
func (g *Graph) RemovePoint(pointID string) error {
	n, _, ok := g.FindPoint(pointID)
	if !ok {
		return ErrUnknownPoint
	}
	g.removeConnsWhere(func(c *Connection) bool {
		return c.FromPointID == pointID || c.ToPointID == pointID
	})
	n.RemovePoint(pointID)
	return nil
}

func (g *Graph) removeConnsWhere(match func(*Connection) bool) {
	g.conns = slices.DeleteFunc(g.conns, func(c *Connection) bool {
		if match(c) {
			delete(g.connIndex, c.ID)
			return true
		}
		return false
	})
}

// Incoming returns the connections ending at a node, ordered by the
// position of the input point, then by insertion.
func (g *Graph) Incoming(nodeID string) []*Connection {
	n, ok := g.nodeIndex[nodeID]
	if !ok {
		return nil
	}
	var out []*Connection
	for _, p := range n.Inputs {
		for _, c := range g.conns {
			if c.ToPointID == p.ID {
				out = append(out, c)
			}
		}
	}
	return out
}

// Outgoing returns the connections leaving a node, ordered by the position
// of the output point, then by insertion.
func (g *Graph) Outgoing(nodeID string) []*Connection {
	n, ok := g.nodeIndex[nodeID]
	if !ok {
		return nil
	}
	var out []*Connection
	for _, p := range n.Outputs {
		for _, c := range g.conns {
			if c.FromPointID == p.ID {
				out = append(out, c)
			}
		}
	}
	return out
}

// Parents returns the distinct upstream node ids of a node.
func (g *Graph) Parents(id string) []string {
	var out []string
	for _, c := range g.Incoming(id) {
		if !slices.Contains(out, c.FromNodeID) {
			out = append(out, c.FromNodeID)
		}
	}
	return out
}

// Children returns the distinct downstream node ids of a node.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, c := range g.Outgoing(id) {
		if !slices.Contains(out, c.ToNodeID) {
			out = append(out, c.ToNodeID)
		}
	}
	return out
}

// Roots returns the nodes without incoming connections, in insertion order.
func (g *Graph) Roots() []*Node {
	hasInput := make(map[string]bool, len(g.nodes))
	for _, c := range g.conns {
		hasInput[c.ToNodeID] = true
	}
	var out []*Node
	for _, n := range g.nodes {
		if !hasInput[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// Descendants returns the ids of every node reachable from id, in graph
// insertion order. id itself is not included.
func (g *Graph) Descendants(id string) []string {
	return g.ordered(g.walk(id, func(c *Connection) (string, string) { return c.FromNodeID, c.ToNodeID }))
}

// Ancestors returns the ids of every node that reaches id, in graph
// insertion order. id itself is not included.
func (g *Graph) Ancestors(id string) []string {
	return g.ordered(g.walk(id, func(c *Connection) (string, string) { return c.ToNodeID, c.FromNodeID }))
}

func (g *Graph) walk(start string, dir func(*Connection) (string, string)) map[string]bool {
	seen := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range g.conns {
			from, to := dir(c)
			if from == cur && !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	delete(seen, start)
	return seen
}

func (g *Graph) ordered(set map[string]bool) []string {
	var out []string
	for _, n := range g.nodes {
		if set[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// reaches reports whether to is reachable from from (or equal to it).
func (g *Graph) reaches(from, to string) bool {
	if from == to {
		return true
	}
	return g.walk(from, func(c *Connection) (string, string) { return c.FromNodeID, c.ToNodeID })[to]
}

// TopologicalOrder returns every node so that each connection's source
// precedes its destination. Nodes that become ready together are emitted in
// insertion order. Returns ErrCycle if no such order exists.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	pos := make(map[string]int, len(g.nodes))
	indeg := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		pos[n.ID] = i
	}
	for _, c := range g.conns {
		indeg[c.ToNodeID]++
	}

	var ready []int
	push := func(i int) {
		at, _ := slices.BinarySearch(ready, i)
		ready = slices.Insert(ready, at, i)
	}
	for i, n := range g.nodes {
		if indeg[n.ID] == 0 {
			push(i)
		}
	}

	order := make([]*Node, 0, len(g.nodes))
	for len(ready) > 0 {
		n := g.nodes[ready[0]]
		ready = ready[1:]
		order = append(order, n)
		for _, c := range g.conns {
			if c.FromNodeID != n.ID {
				continue
			}
			indeg[c.ToNodeID]--
			if indeg[c.ToNodeID] == 0 {
				push(pos[c.ToNodeID])
			}
		}
	}
	if len(order) != len(g.nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// Validate checks the structural invariants of the graph:
//
//  1. Every node has an operation and well-formed points.
//  2. Every connection's endpoints resolve to an output and an input point
//     on nodes of this graph.
//  3. The graph is acyclic.
//
// Violations of 1 and 2 are GRAPH_INTEGRITY errors, violations of 3 CYCLE
// errors. The sentinel is kept as the cause, so errors.Is works with both.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if err := n.Validate(); err != nil {
			return bgerrors.Wrap(bgerrors.ErrCodeGraphIntegrity, err, "node %q (%s)", n.Name, n.ID)
		}
	}
	for _, c := range g.conns {
		if err := g.validateConnection(c); err != nil {
			return bgerrors.Wrap(bgerrors.ErrCodeGraphIntegrity, err, "connection %s", c.ID)
		}
	}
	if err := g.detectCycles(); err != nil {
		return bgerrors.Wrap(bgerrors.ErrCodeCycle, err, "graph %q", g.Name)
	}
	return nil
}

func (g *Graph) validateConnection(c *Connection) error {
	from, ok := g.nodeIndex[c.FromNodeID]
	if !ok {
		return ErrDanglingConnection
	}
	to, ok := g.nodeIndex[c.ToNodeID]
	if !ok {
		return ErrDanglingConnection
	}
	if from.FindOutputPoint(c.FromPointID) == nil || to.FindInputPoint(c.ToPointID) == nil {
		return ErrDanglingConnection
	}
	return nil
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, n := range g.nodes {
		if color[n.ID] == white {
			dfs(n.ID)
			if hasCycle {
				return ErrCycle
			}
		}
	}
	return nil
}
