// Package legacy migrates version 1 graph documents to the current model.
//
// Version 1 stored every node as one flat record: a kind enum, the
// connection points, and a field per kind-specific setting, most of them
// keyed by build target. [Migrate] converts a single record through a fixed
// kind table; [MigrateGraph] converts a whole document including its
// connections. Node, point and connection ids are preserved so that caches
// and references made against the old document stay valid.
//
// Nothing but the CLI's migrate command imports this package.
package legacy
