// Package metadata loads and links the metadata model that documentation is
// extracted from.
//
// A model is one or more scopes (loaded programs), each holding a tree of
// type entities with their members. Linking sets the back-references the
// serialized form omits (declaring type, assembly, inherited namespace),
// assigns documentation identifiers and builds per-scope type indexes.
// Entities that fail validation are dropped and reported as Issues rather
// than failing the load.
//
// Snapshots are read from JSON or YAML files; both encodings share the JSON
// field names of pkg/types.
package metadata
