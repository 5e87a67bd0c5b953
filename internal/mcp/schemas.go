package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// declarationKinds are the kind names accepted by search_declarations
var declarationKinds = []string{"Type", "Delegate", "Method", "Event", "Property", "Field"}

// extractDocsTool returns the tool definition for extract_docs
func extractDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_docs",
		Description: "Extract C# declarations and documentation from a metadata model snapshot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"model_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a metadata model snapshot (.json, .yaml or .yml)",
				},
				"xml_docs": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a compiler-generated XML documentation file to attach",
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "If set, also write the payload as JSON to this path",
				},
				"validate_references": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, resolve every cref in the documentation and report failures",
				},
			},
			Required: []string{"model_path"},
		},
	}
}

// resolveIdentifierTool returns the tool definition for resolve_identifier
func resolveIdentifierTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_identifier",
		Description: "Resolve a documentation identifier (e.g. M:N.C.Method(System.Int32)) to its declaration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"assembly": map[string]interface{}{
					"type":        "string",
					"description": "Assembly file of an extracted program (e.g. Lib.dll)",
				},
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Documentation identifier with T:, M:, P:, F: or E: prefix",
				},
			},
			Required: []string{"assembly", "id"},
		},
	}
}

// searchDeclarationsTool returns the tool definition for search_declarations
func searchDeclarationsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_declarations",
		Description: "Keyword search over the declarations and documentation of an extracted program",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"assembly": map[string]interface{}{
					"type":        "string",
					"description": "Assembly file of an extracted program",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms; all terms must match",
				},
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Filter by declaration kind",
					"items": map[string]interface{}{
						"type": "string",
						"enum": declarationKinds,
					},
				},
				"namespace": map[string]interface{}{
					"type":        "string",
					"description": "Exact namespace to search in",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"assembly", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query extraction status and statistics; lists all programs when assembly is omitted",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"assembly": map[string]interface{}{
					"type":        "string",
					"description": "Assembly file of an extracted program",
				},
			},
		},
	}
}
