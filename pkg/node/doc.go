// Package node implements the operation variants of the bundle graph:
// Loader, Filter, ImportSetting, Modifier, Grouping, PrefabBuilder,
// BundleConfigurator, BundleBuilder and Exporter.
//
// Each variant is a [dag.Operation] whose settings are plain exported
// fields, so graph files can encode them directly. Settings that differ per
// build target use [PerTarget].
//
// The set of kinds is closed. [New] maps a [dag.Kind] to a fresh operation
// through a fixed table; there is no reflection-based dispatch.
//
// # Side Effects
//
// Prepare never writes anything. Build of PrefabBuilder, BundleBuilder and
// Exporter writes files below the run's project root.
package node
