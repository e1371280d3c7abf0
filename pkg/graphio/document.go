package graphio

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/node"
)

// FormatVersion is the document version written by this package.
const FormatVersion = 2

type document struct {
	Version     int          `json:"version" toml:"version"`
	ID          string       `json:"id" toml:"id"`
	Name        string       `json:"name" toml:"name"`
	Nodes       []nodeRecord `json:"nodes" toml:"nodes"`
	Connections []connRecord `json:"connections" toml:"connections,omitempty"`
}

type nodeRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Kind     dag.Kind        `json:"kind"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Inputs   []pointRecord   `json:"inputs,omitempty"`
	Outputs  []pointRecord   `json:"outputs,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

type pointRecord struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label" toml:"label"`
}

type connRecord struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label,omitempty" toml:"label,omitempty"`
	From  string `json:"from" toml:"from"`
	To    string `json:"to" toml:"to"`
}

func fromGraph(g *dag.Graph) (document, error) {
	doc := document{Version: FormatVersion, ID: g.ID, Name: g.Name}
	for _, n := range g.Nodes() {
		if n.Operation == nil {
			return document{}, errors.New(errors.ErrCodeGraphIntegrity, "node %q has no operation", n.Name)
		}
		settings, err := node.EncodeSettings(n.Operation)
		if err != nil {
			return document{}, err
		}
		doc.Nodes = append(doc.Nodes, nodeRecord{
			ID:       n.ID,
			Name:     n.Name,
			Kind:     n.Kind(),
			X:        n.X,
			Y:        n.Y,
			Inputs:   pointRecords(n.Inputs),
			Outputs:  pointRecords(n.Outputs),
			Settings: settings,
		})
	}
	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, connRecord{
			ID: c.ID, Label: c.Label, From: c.FromPointID, To: c.ToPointID,
		})
	}
	return doc, nil
}

func pointRecords(points []*dag.Point) []pointRecord {
	out := make([]pointRecord, len(points))
	for i, p := range points {
		out[i] = pointRecord{ID: p.ID, Label: p.Label}
	}
	return out
}

func (doc document) toGraph() (*dag.Graph, error) {
	if doc.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported graph version %d (want %d)", doc.Version, FormatVersion)
	}
	g := dag.NewGraph(doc.Name)
	if doc.ID != "" {
		g.ID = doc.ID
	}
	for _, rec := range doc.Nodes {
		if rec.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q has no id", rec.Name)
		}
		op, err := node.DecodeSettings(rec.Kind, rec.Settings)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", rec.Name, err)
		}
		n := &dag.Node{ID: rec.ID, Name: rec.Name, X: rec.X, Y: rec.Y, Operation: op}
		for _, p := range rec.Inputs {
			n.Inputs = append(n.Inputs, &dag.Point{ID: p.ID, Label: p.Label, IsInput: true, NodeID: n.ID})
		}
		for _, p := range rec.Outputs {
			n.Outputs = append(n.Outputs, &dag.Point{ID: p.ID, Label: p.Label, NodeID: n.ID})
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", rec.ID, err)
		}
	}
	for _, rec := range doc.Connections {
		c := &dag.Connection{ID: rec.ID, Label: rec.Label, FromPointID: rec.From, ToPointID: rec.To}
		if err := g.AddConnection(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, err, "connection %s", rec.ID)
		}
	}
	return g, nil
}
