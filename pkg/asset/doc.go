// Package asset defines the values that flow through a bundle graph: asset
// references, the grouped collections carried by connections, and the file
// system delta that drives incremental execution.
//
// # References
//
// A [Reference] is an immutable handle to one project file. It carries the
// project-relative path, a content fingerprint and a coarse type tag. When a
// file changes a new Reference replaces the old one; nothing mutates a
// Reference in place.
//
// # Group sets
//
// A [GroupSet] maps caller-defined group keys to ordered reference slices.
// Order is significant: nodes emit references sorted so repeated runs produce
// identical output. Keys are partitions chosen by the emitting node ("0" is
// the conventional single group), not global identities.
//
// # Deltas and resolution
//
// A [Delta] lists imported, deleted, moved and moved-from paths reported by an
// external change notifier. A [Resolver] turns paths into references; the
// engine and the node variants never read file bytes except through it.
// [Scan] and [Snapshot.Diff] derive a delta by comparing fingerprints when no
// notifier is available, as in batch builds.
package asset
