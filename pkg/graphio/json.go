package graphio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/bundlegraph/pkg/dag"
)

// ReadJSON decodes a JSON graph document from r.
//
// ReadJSON returns an error if the JSON is malformed, a node kind is
// unknown, settings do not decode, or a connection is rejected by the graph
// (unknown point, wrong direction, cycle). ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.toGraph()
}

// WriteJSON encodes g as an indented JSON document.
func WriteJSON(g *dag.Graph, w io.Writer) error {
	doc, err := fromGraph(g)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
