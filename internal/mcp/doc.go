// Package mcp exposes csdocs over the Model Context Protocol.
//
// The server speaks MCP over stdio and registers four tools.
//
// # extract_docs
//
// Loads a metadata model snapshot, optionally attaches an XML
// documentation file, extracts declaration records and stores them.
//
//	{
//	  "model_path": "/abs/path/Lib.json",
//	  "xml_docs": "/abs/path/Lib.xml",
//	  "output_path": "/abs/path/Lib.docs.json",
//	  "validate_references": true
//	}
//
// Only one extraction runs at a time; a second call fails with
// ErrorCodeExtractionInProgress.
//
// # resolve_identifier
//
// Resolves a documentation identifier such as
// "M:N.C.Method(System.Int32,System.String)". Assemblies extracted by the
// running server resolve against their model, so overloads and generic
// parameters are matched. Others fall back to the stored declarations.
//
// # search_declarations
//
// Keyword search with optional kind and namespace filters:
//
//	{
//	  "assembly": "Lib.dll",
//	  "query": "parse integer",
//	  "kinds": ["Method"],
//	  "namespace": "N",
//	  "limit": 10
//	}
//
// # get_status
//
// Reports counts and index health for one assembly, or lists every
// extracted program when assembly is omitted.
//
// # Errors
//
// Handlers return *MCPError values carrying JSON-RPC error codes:
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32001  model or documentation file not found
//	-32002  extraction already running
//	-32003  assembly not extracted
//	-32004  empty query
//	-32005  identifier did not resolve
package mcp
