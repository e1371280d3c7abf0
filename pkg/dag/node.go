package dag

import "slices"

// Node is a processing step in the graph. Inputs and Outputs keep their
// creation order; the operation carries all kind-specific behaviour and
// settings.
type Node struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Inputs    []*Point  `json:"inputs"`
	Outputs   []*Point  `json:"outputs"`
	Operation Operation `json:"-"`
}

// NewNode creates a node with a fresh id and lets op add its default points.
func NewNode(name string, op Operation, x, y float64) *Node {
	n := &Node{ID: NewID(), Name: name, X: x, Y: y, Operation: op}
	if op != nil {
		op.Initialize(n)
	}
	return n
}

// Kind returns the operation kind, or "" when the node has no operation.
func (n *Node) Kind() Kind {
	if n.Operation == nil {
		return ""
	}
	return n.Operation.Kind()
}

// AddInputPoint appends a new input point with the given label.
func (n *Node) AddInputPoint(label string) *Point {
	p := &Point{ID: NewID(), Label: label, IsInput: true, NodeID: n.ID}
	n.Inputs = append(n.Inputs, p)
	return p
}

// AddOutputPoint appends a new output point with the given label.
func (n *Node) AddOutputPoint(label string) *Point {
	p := &Point{ID: NewID(), Label: label, NodeID: n.ID}
	n.Outputs = append(n.Outputs, p)
	return p
}

// AddDefaultInputPoint returns the default input point, creating it on the
// first call.
func (n *Node) AddDefaultInputPoint() *Point {
	if p := n.InputByLabel(DefaultInputLabel); p != nil {
		return p
	}
	return n.AddInputPoint(DefaultInputLabel)
}

// AddDefaultOutputPoint returns the default output point, creating it on
// the first call.
func (n *Node) AddDefaultOutputPoint() *Point {
	if p := n.OutputByLabel(DefaultOutputLabel); p != nil {
		return p
	}
	return n.AddOutputPoint(DefaultOutputLabel)
}

// InputByLabel returns the first input point with the given label.
func (n *Node) InputByLabel(label string) *Point { return byLabel(n.Inputs, label) }

// OutputByLabel returns the first output point with the given label.
func (n *Node) OutputByLabel(label string) *Point { return byLabel(n.Outputs, label) }

// FindInputPoint returns the input point with the given id, or nil.
func (n *Node) FindInputPoint(id string) *Point { return byID(n.Inputs, id) }

// FindOutputPoint returns the output point with the given id, or nil.
func (n *Node) FindOutputPoint(id string) *Point { return byID(n.Outputs, id) }

// FindPoint searches inputs, then outputs.
func (n *Node) FindPoint(id string) *Point {
	if p := n.FindInputPoint(id); p != nil {
		return p
	}
	return n.FindOutputPoint(id)
}

// PointIndex returns the position of a point within its direction, or -1.
func (n *Node) PointIndex(id string) int {
	if i := slices.IndexFunc(n.Inputs, func(p *Point) bool { return p.ID == id }); i >= 0 {
		return i
	}
	return slices.IndexFunc(n.Outputs, func(p *Point) bool { return p.ID == id })
}

// RemovePoint drops a point from the node. It does not touch connections;
// use [Graph.RemovePoint] on nodes that belong to a graph.
func (n *Node) RemovePoint(id string) bool {
	match := func(p *Point) bool { return p.ID == id }
	if i := slices.IndexFunc(n.Inputs, match); i >= 0 {
		n.Inputs = slices.Delete(n.Inputs, i, i+1)
		return true
	}
	if i := slices.IndexFunc(n.Outputs, match); i >= 0 {
		n.Outputs = slices.Delete(n.Outputs, i, i+1)
		return true
	}
	return false
}

// Duplicate returns a deep copy of n. The operation is cloned, so editing the
// copy's settings never affects n. Unless keepID is set the copy and each of
// its points get fresh ids. Initialize is not called again; the points are
// copied as they are.
func (n *Node) Duplicate(keepID bool) *Node {
	out := &Node{ID: n.ID, Name: n.Name, X: n.X, Y: n.Y}
	if !keepID {
		out.ID = NewID()
	}
	if n.Operation != nil {
		out.Operation = n.Operation.Clone()
	}
	out.Inputs = copyPoints(n.Inputs, out.ID, keepID)
	out.Outputs = copyPoints(n.Outputs, out.ID, keepID)
	return out
}

// Validate checks the node on its own: an operation must be present and
// every point must point back at n with the right direction.
func (n *Node) Validate() error {
	if n.Operation == nil {
		return ErrNilOperation
	}
	for _, p := range n.Inputs {
		if p.NodeID != n.ID || !p.IsInput {
			return ErrDirection
		}
	}
	for _, p := range n.Outputs {
		if p.NodeID != n.ID || p.IsInput {
			return ErrDirection
		}
	}
	return nil
}

func copyPoints(src []*Point, nodeID string, keepID bool) []*Point {
	if src == nil {
		return nil
	}
	out := make([]*Point, len(src))
	for i, p := range src {
		cp := *p
		cp.NodeID = nodeID
		if !keepID {
			cp.ID = NewID()
		}
		out[i] = &cp
	}
	return out
}

func byLabel(points []*Point, label string) *Point {
	for _, p := range points {
		if p.Label == label {
			return p
		}
	}
	return nil
}

func byID(points []*Point, id string) *Point {
	for _, p := range points {
		if p.ID == id {
			return p
		}
	}
	return nil
}
