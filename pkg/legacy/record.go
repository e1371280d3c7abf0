package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Kind is a version 1 node kind.
type Kind string

// Version 1 node kinds.
const (
	KindLoader        Kind = "LOADER_GUI"
	KindFilter        Kind = "FILTER_GUI"
	KindImportSetting Kind = "IMPORTSETTING_GUI"
	KindModifier      Kind = "MODIFIER_GUI"
	KindGrouping      Kind = "GROUPING_GUI"
	KindPrefabBuilder Kind = "PREFABBUILDER_GUI"
	KindBundleConfig  Kind = "BUNDLECONFIG_GUI"
	KindBundleBuilder Kind = "BUNDLEBUILDER_GUI"
	KindExporter      Kind = "EXPORTER_GUI"
)

// DefaultTarget is the key version 1 used for the target-independent value
// of a per-target setting.
const DefaultTarget = "default"

// Point is a version 1 connection point.
type Point struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	IsInput bool   `json:"isInput"`
}

// Node is a flat version 1 node record. Per-target settings are maps from
// target name to value, with the shared value under DefaultTarget.
type Node struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Kind         Kind    `json:"kind"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	InputPoints  []Point `json:"inputPoints"`
	OutputPoints []Point `json:"outputPoints"`

	// LoaderLoadPath is relative to the Assets directory.
	LoaderLoadPath map[string]string `json:"loaderLoadPath,omitempty"`

	FilterContainsKeywords []string `json:"filterContainsKeywords,omitempty"`
	FilterContainsKeytypes []string `json:"filterContainsKeytypes,omitempty"`

	ImportSettings       map[string]string `json:"importSettings,omitempty"`
	ImportSettingsConfig string            `json:"importSettingsConfig,omitempty"`

	ModifierName   string            `json:"modifierName,omitempty"`
	ModifierParams map[string]string `json:"modifierParams,omitempty"`
	ModifierTypes  []string          `json:"modifierTypes,omitempty"`

	GroupingKeywords map[string]string `json:"groupingKeywords,omitempty"`

	PrefabBuilderName      string `json:"prefabBuilderName,omitempty"`
	PrefabBuilderOutputDir string `json:"prefabBuilderOutputDir,omitempty"`

	BundleNameTemplate map[string]string `json:"bundleNameTemplate,omitempty"`
	Variants           map[string]string `json:"variants,omitempty"`

	BundleBuilderOutputDir   map[string]string `json:"bundleBuilderOutputDir,omitempty"`
	BundleBuilderCompression map[string]string `json:"bundleBuilderCompression,omitempty"`

	ExporterExportPath map[string]string `json:"exporterExportPath,omitempty"`
	ExporterCreateDir  bool              `json:"exporterCreateDir,omitempty"`
}

// Connection is a version 1 connection between two points.
type Connection struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	FromNodeID  string `json:"fromNodeId"`
	FromPointID string `json:"fromNodeConnectionPointId"`
	ToNodeID    string `json:"toNodeId"`
	ToPointID   string `json:"toNodeConnectionPointId"`
}

// Graph is a version 1 graph document.
type Graph struct {
	Name        string       `json:"name,omitempty"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Read decodes a version 1 document from r.
func Read(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &g, nil
}

// targets returns the non-default keys of a per-target map, sorted.
func targets(m map[string]string) []string {
	keys := slices.Sorted(maps.Keys(m))
	return slices.DeleteFunc(keys, func(k string) bool { return k == DefaultTarget })
}
