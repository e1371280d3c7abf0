package dag

import "github.com/google/uuid"

// Default point labels. Default points are created lazily and looked up by
// label, so a node never carries two default points in the same direction.
const (
	DefaultInputLabel  = "-"
	DefaultOutputLabel = "+"
)

// NewID returns a fresh random identifier for nodes, points and connections.
func NewID() string { return uuid.NewString() }

// Point is a named, directed port owned by exactly one node.
// NodeID is a lookup key into the graph's node table, not an owning link.
type Point struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	IsInput bool   `json:"is_input"`
	NodeID  string `json:"-"`
}

// Connection is a directed edge from an output point to an input point.
// Both endpoints are referenced by id.
type Connection struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	FromNodeID  string `json:"from_node"`
	FromPointID string `json:"from_point"`
	ToNodeID    string `json:"to_node"`
	ToPointID   string `json:"to_point"`
}
