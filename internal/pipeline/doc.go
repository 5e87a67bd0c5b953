// Package pipeline runs a complete extraction: load a metadata snapshot,
// attach an optional XML documentation file, extract declaration records,
// then write JSON output and persist to storage as requested.
//
// The CLI and the MCP server both drive extraction through a Pipeline.
// The resolver built for each run is kept per assembly so later identifier
// lookups can reuse its type cache.
package pipeline
