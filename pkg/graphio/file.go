package graphio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/dag"
)

// Format is a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf picks the encoding from a file extension; anything other than
// .toml is JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// ReadFile reads a graph file in the format given by its extension.
func ReadFile(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var g *dag.Graph
	switch FormatOf(path) {
	case FormatTOML:
		g, err = ReadTOML(f)
	default:
		g, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteFile writes g to path in the format given by its extension.
func WriteFile(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch FormatOf(path) {
	case FormatTOML:
		return WriteTOML(g, f)
	default:
		return WriteJSON(g, f)
	}
}
