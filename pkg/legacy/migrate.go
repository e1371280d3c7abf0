package legacy

import (
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/node"
)

// anyType is the version 1 filter type matching every asset type.
const anyType = "Any"

// importer converts the settings of one version 1 record.
type importer func(v1 Node) dag.Operation

var importers = map[Kind]importer{
	KindLoader:        importLoader,
	KindFilter:        importFilter,
	KindImportSetting: importImportSetting,
	KindModifier:      importModifier,
	KindGrouping:      importGrouping,
	KindPrefabBuilder: importPrefabBuilder,
	KindBundleConfig:  importBundleConfigurator,
	KindBundleBuilder: importBundleBuilder,
	KindExporter:      importExporter,
}

// Migrate converts a version 1 node record. The id, name, position and
// points are carried over; the operation then adds any default point the
// record lacked.
func Migrate(v1 Node) (*dag.Node, error) {
	imp, ok := importers[v1.Kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown version 1 node kind %q", v1.Kind)
	}
	if v1.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "version 1 node %q has no id", v1.Name)
	}
	n := &dag.Node{ID: v1.ID, Name: v1.Name, X: v1.X, Y: v1.Y}
	for _, p := range v1.InputPoints {
		n.Inputs = append(n.Inputs, &dag.Point{ID: p.ID, Label: p.Label, IsInput: true, NodeID: n.ID})
	}
	for _, p := range v1.OutputPoints {
		n.Outputs = append(n.Outputs, &dag.Point{ID: p.ID, Label: p.Label, NodeID: n.ID})
	}
	n.Operation = imp(v1)
	n.Operation.Initialize(n)
	return n, nil
}

// MigrateGraph converts a version 1 document. Connection ids are kept;
// a connection the current model rejects fails the migration.
func MigrateGraph(v1 *Graph, name string) (*dag.Graph, error) {
	if name == "" {
		name = v1.Name
	}
	g := dag.NewGraph(name)
	for _, rec := range v1.Nodes {
		n, err := Migrate(rec)
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, err, "node %s", rec.ID)
		}
	}
	for _, rec := range v1.Connections {
		c := &dag.Connection{ID: rec.ID, Label: rec.Label, FromPointID: rec.FromPointID, ToPointID: rec.ToPointID}
		if err := g.AddConnection(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, err, "connection %s", rec.ID)
		}
		if c.FromNodeID != rec.FromNodeID || c.ToNodeID != rec.ToNodeID {
			return nil, errors.New(errors.ErrCodeGraphIntegrity,
				"connection %s: points belong to %s -> %s, record says %s -> %s",
				rec.ID, c.FromNodeID, c.ToNodeID, rec.FromNodeID, rec.ToNodeID)
		}
	}
	return g, nil
}

func perTarget(m map[string]string, convert func(string) string) node.PerTarget {
	if convert == nil {
		convert = func(s string) string { return s }
	}
	p := node.Value(convert(m[DefaultTarget]))
	for _, t := range targets(m) {
		p.Set(dag.Target(t), convert(m[t]))
	}
	return p
}

// assetsRelative turns a version 1 path relative to the Assets directory
// into a project relative one.
func assetsRelative(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Join(asset.AssetsRoot, p)
}

func importLoader(v1 Node) dag.Operation {
	return &node.Loader{LoadPath: perTarget(v1.LoaderLoadPath, assetsRelative)}
}

// importFilter maps each keyword/type pair to a rule. Version 1 matched
// keywords as substrings of the file name.
func importFilter(v1 Node) dag.Operation {
	f := &node.Filter{}
	for i, kw := range v1.FilterContainsKeywords {
		r := node.FilterRule{Label: kw}
		if kw != "" {
			r.Pattern = "*" + kw + "*"
		}
		if i < len(v1.FilterContainsKeytypes) && v1.FilterContainsKeytypes[i] != anyType {
			r.Type = v1.FilterContainsKeytypes[i]
		}
		f.Rules = append(f.Rules, r)
	}
	return f
}

func importImportSetting(v1 Node) dag.Operation {
	return &node.ImportSetting{Settings: maps.Clone(v1.ImportSettings), ConfigPath: v1.ImportSettingsConfig}
}

func importModifier(v1 Node) dag.Operation {
	return &node.Modifier{
		Modifier: v1.ModifierName,
		Params:   maps.Clone(v1.ModifierParams),
		Types:    slices.Clone(v1.ModifierTypes),
	}
}

func importGrouping(v1 Node) dag.Operation {
	return &node.Grouping{Pattern: perTarget(v1.GroupingKeywords, nil)}
}

func importPrefabBuilder(v1 Node) dag.Operation {
	return &node.PrefabBuilder{Name: v1.PrefabBuilderName, OutputDir: v1.PrefabBuilderOutputDir}
}

// importBundleConfigurator keeps the shared template. Variants are stored
// by id in version 1; only their names survive.
func importBundleConfigurator(v1 Node) dag.Operation {
	c := &node.BundleConfigurator{BundleNameTemplate: v1.BundleNameTemplate[DefaultTarget]}
	for _, id := range slices.Sorted(maps.Keys(v1.Variants)) {
		c.Variants = append(c.Variants, v1.Variants[id])
	}
	return c
}

func importBundleBuilder(v1 Node) dag.Operation {
	return &node.BundleBuilder{
		OutputDir:   perTarget(v1.BundleBuilderOutputDir, nil),
		Compression: v1.BundleBuilderCompression[DefaultTarget],
	}
}

func importExporter(v1 Node) dag.Operation {
	return &node.Exporter{ExportPath: perTarget(v1.ExporterExportPath, nil), CreateDir: v1.ExporterCreateDir}
}
