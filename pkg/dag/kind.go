package dag

// Kind names an operation variant. The set is closed; see the node package
// for the constructor table.
type Kind string

// Operation kinds.
const (
	KindLoader             Kind = "Loader"
	KindFilter             Kind = "Filter"
	KindImportSetting      Kind = "ImportSetting"
	KindModifier           Kind = "Modifier"
	KindGrouping           Kind = "Grouping"
	KindPrefabBuilder      Kind = "PrefabBuilder"
	KindBundleConfigurator Kind = "BundleConfigurator"
	KindBundleBuilder      Kind = "BundleBuilder"
	KindExporter           Kind = "Exporter"
)

// Kinds lists every operation kind in pipeline order.
var Kinds = []Kind{
	KindLoader,
	KindFilter,
	KindImportSetting,
	KindModifier,
	KindGrouping,
	KindPrefabBuilder,
	KindBundleConfigurator,
	KindBundleBuilder,
	KindExporter,
}

// Semantics declares what a node accepts on its input points.
type Semantics int

const (
	// InputAny accepts any number of incoming connections.
	InputAny Semantics = iota
	// InputNone accepts no incoming connection (source nodes).
	InputNone
)

// Target is a build target such as "standalone", "ios" or "android".
// Node settings may differ per target.
type Target string
