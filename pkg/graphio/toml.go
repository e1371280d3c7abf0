package graphio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bundlegraph/pkg/dag"
)

// tomlDocument mirrors document with settings as a TOML table.
type tomlDocument struct {
	Version     int          `toml:"version"`
	ID          string       `toml:"id"`
	Name        string       `toml:"name"`
	Nodes       []tomlNode   `toml:"nodes"`
	Connections []connRecord `toml:"connections,omitempty"`
}

type tomlNode struct {
	ID       string         `toml:"id"`
	Name     string         `toml:"name"`
	Kind     string         `toml:"kind"`
	X        float64        `toml:"x"`
	Y        float64        `toml:"y"`
	Inputs   []pointRecord  `toml:"inputs,omitempty"`
	Outputs  []pointRecord  `toml:"outputs,omitempty"`
	Settings map[string]any `toml:"settings,omitempty"`
}

// ReadTOML decodes a TOML graph document from r. It accepts the same
// structure as ReadJSON and applies the same checks.
func ReadTOML(r io.Reader) (*dag.Graph, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	// Settings are defined by each operation's JSON encoding, so the
	// document is normalized through JSON.
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.toGraph()
}

// WriteTOML encodes g as a TOML document.
func WriteTOML(g *dag.Graph, w io.Writer) error {
	doc, err := fromGraph(g)
	if err != nil {
		return err
	}
	out := tomlDocument{
		Version:     doc.Version,
		ID:          doc.ID,
		Name:        doc.Name,
		Connections: doc.Connections,
	}
	for _, n := range doc.Nodes {
		var settings map[string]any
		if err := json.Unmarshal(n.Settings, &settings); err != nil {
			return fmt.Errorf("encode %s settings: %w", n.Name, err)
		}
		out.Nodes = append(out.Nodes, tomlNode{
			ID:       n.ID,
			Name:     n.Name,
			Kind:     string(n.Kind),
			X:        n.X,
			Y:        n.Y,
			Inputs:   n.Inputs,
			Outputs:  n.Outputs,
			Settings: settings,
		})
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
