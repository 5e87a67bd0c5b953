package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dshills/csdocs/internal/docid"
	"github.com/dshills/csdocs/internal/metadata"
	"github.com/dshills/csdocs/internal/pipeline"
	"github.com/dshills/csdocs/internal/render"
	"github.com/dshills/csdocs/internal/searcher"
	"github.com/dshills/csdocs/internal/storage"
	"github.com/dshills/csdocs/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams        = -32602 // Invalid method parameters
	ErrorCodeInternalError        = -32603 // Internal JSON-RPC error
	ErrorCodeModelNotFound        = -32001 // Model snapshot or documentation file does not exist
	ErrorCodeExtractionInProgress = -32002 // Another extraction is already running
	ErrorCodeNotExtracted         = -32003 // Assembly has not been extracted
	ErrorCodeEmptyQuery           = -32004 // Query parameter is empty
	ErrorCodeUnresolved           = -32005 // Identifier does not name a declaration
)

// handleExtractDocs handles the extract_docs tool invocation
func (s *Server) handleExtractDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	modelPath, ok := args["model_path"].(string)
	if !ok || modelPath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "model_path parameter is required", map[string]interface{}{
			"param":  "model_path",
			"reason": "missing or empty",
		})
	}
	if err := validateModelPath(modelPath); err != nil {
		return nil, pathError("model_path", err)
	}

	xmlDocs := getStringDefault(args, "xml_docs", "")
	if xmlDocs != "" {
		if err := validateFile(xmlDocs); err != nil {
			return nil, pathError("xml_docs", err)
		}
	}

	outputPath := getStringDefault(args, "output_path", "")
	if outputPath != "" && !filepath.IsAbs(outputPath) {
		return nil, pathError("output_path", ErrPathNotAbsolute)
	}

	if !s.lock.TryAcquire() {
		return nil, newMCPError(ErrorCodeExtractionInProgress, "another extraction is already running", nil)
	}
	defer s.lock.Release()

	result, err := s.pipeline.Run(ctx, pipeline.Request{
		ModelPath:          modelPath,
		XMLDocs:            xmlDocs,
		OutputPath:         outputPath,
		Store:              true,
		Workers:            s.cfg.Workers,
		ValidateReferences: getBoolDefault(args, "validate_references", s.cfg.Extract.ValidateReferences),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stats := result.Stats
	response := map[string]interface{}{
		"extracted":             true,
		"assembly":              result.Payload.AssemblyFile,
		"program_id":            result.Program.ID,
		"run_id":                stats.RunID,
		"namespaces":            len(result.Payload.Declarations),
		"types_visited":         stats.TypesVisited,
		"types_emitted":         stats.TypesEmitted,
		"members_emitted":       stats.MembersEmitted,
		"entities_failed":       stats.EntitiesFailed,
		"unresolved_references": stats.UnresolvedReferences,
		"duration_ms":           result.Duration.Milliseconds(),
	}
	if outputPath != "" {
		response["output_path"] = outputPath
	}
	if result.Docs != nil {
		response["docs_attached"] = result.Docs.Attached
		response["docs_unresolved"] = len(result.Docs.Unresolved)
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleResolveIdentifier handles the resolve_identifier tool invocation.
// Assemblies extracted by this server resolve against their model, so
// overloads and generic parameters are matched; otherwise the stored
// declarations are looked up by identifier.
func (s *Server) handleResolveIdentifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	assembly, ok := args["assembly"].(string)
	if !ok || assembly == "" {
		return nil, requiredParam("assembly")
	}
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, requiredParam("id")
	}

	parsed, err := docid.Parse(id)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid identifier", map[string]interface{}{
			"param":  "id",
			"reason": err.Error(),
		})
	}

	if r, ok := s.pipeline.Resolver(assembly); ok {
		entity, err := r.ResolveIdentifier(parsed)
		if err != nil {
			return nil, unresolved(id, err)
		}
		return mcp.NewToolResultText(formatJSON(s.entityResponse(r.Model(), entity))), nil
	}

	program, err := s.storage.GetProgram(ctx, assembly)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notExtracted(assembly)
	}
	if err != nil {
		return nil, internalError("failed to get program", err)
	}

	decl, err := s.storage.GetDeclaration(ctx, program.ID, parsed.String())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, unresolved(id, err)
	}
	if err != nil {
		return nil, internalError("failed to get declaration", err)
	}

	response := declarationResponse(decl)
	response["source"] = "storage"
	if decl.ParentID != nil {
		if parent, err := s.storage.GetDeclarationByID(ctx, *decl.ParentID); err == nil {
			response["container"] = parent.DocID
		}
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// entityResponse renders a resolved model entity
func (s *Server) entityResponse(model *metadata.Model, e *types.Entity) map[string]interface{} {
	response := map[string]interface{}{
		"id":            e.DocID,
		"kind":          types.DeclarationKindOf(e.Kind).String(),
		"title":         render.Title(e),
		"documentation": e.Documentation,
		"assembly_file": model.ScopeFile(e.Assembly),
		"source":        "model",
	}
	if e.DeclaringType != nil {
		response["container"] = e.DeclaringType.DocID
	}
	if decl, err := s.engine.Render(e); err == nil {
		response["declaration"] = decl
	} else {
		s.logger.Debug("failed to render resolved entity", zap.String("id", e.DocID), zap.Error(err))
		response["render_error"] = err.Error()
	}
	return response
}

// handleSearchDeclarations handles the search_declarations tool invocation
func (s *Server) handleSearchDeclarations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	assembly, ok := args["assembly"].(string)
	if !ok || assembly == "" {
		return nil, requiredParam("assembly")
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", searcher.DefaultLimit)
	if limit < 1 || limit > searcher.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	kinds, err := getKinds(args, "kinds")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid kinds", map[string]interface{}{
			"param":   "kinds",
			"reason":  err.Error(),
			"allowed": declarationKinds,
		})
	}

	program, err := s.storage.GetProgram(ctx, assembly)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notExtracted(assembly)
	}
	if err != nil {
		return nil, internalError("failed to get program", err)
	}

	resp, err := s.searcher.Search(ctx, searcher.Request{
		ProgramID: program.ID,
		Query:     query,
		Kinds:     kinds,
		Namespace: getStringDefault(args, "namespace", ""),
		Limit:     limit,
	})
	if errors.Is(err, searcher.ErrEmptyQuery) {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query has no searchable terms", map[string]interface{}{
			"param": "query",
			"value": query,
		})
	}
	if err != nil {
		return nil, internalError("search failed", err)
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		item := declarationResponse(r.Declaration)
		item["rank"] = r.Rank
		item["relevance"] = fmt.Sprintf("%.3f", r.RelevanceScore)
		if r.Container != "" {
			item["container"] = r.Container
		}
		results = append(results, item)
	}

	response := map[string]interface{}{
		"assembly":      assembly,
		"query":         query,
		"total_results": resp.TotalResults,
		"cache_hit":     resp.CacheHit,
		"duration_ms":   resp.Duration.Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	assembly := getStringDefault(args, "assembly", "")

	if assembly == "" {
		programs, err := s.storage.ListPrograms(ctx)
		if err != nil {
			return nil, internalError("failed to list programs", err)
		}
		list := make([]map[string]interface{}, 0, len(programs))
		for _, p := range programs {
			list = append(list, map[string]interface{}{
				"assembly":           p.AssemblyFile,
				"total_types":        p.TotalTypes,
				"total_declarations": p.TotalDeclarations,
				"last_extracted_at":  p.LastExtractedAt.Format(time.RFC3339),
			})
		}
		response := map[string]interface{}{
			"extraction_running": s.lock.Running(),
			"programs":           list,
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	program, err := s.storage.GetProgram(ctx, assembly)
	if errors.Is(err, storage.ErrNotFound) {
		// Program not extracted
		response := map[string]interface{}{
			"extracted": false,
			"assembly":  assembly,
			"message":   "Assembly not extracted. Use extract_docs tool to extract it.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, internalError("failed to get program status", err)
	}

	status, err := s.storage.GetStatus(ctx, program.ID)
	if err != nil {
		return nil, internalError("failed to get status", err)
	}

	response := map[string]interface{}{
		"extracted":          true,
		"extraction_running": s.lock.Running(),
		"program": map[string]interface{}{
			"assembly":          program.AssemblyFile,
			"run_id":            program.RunID,
			"schema_version":    program.SchemaVersion,
			"last_extracted_at": program.LastExtractedAt.Format(time.RFC3339),
			"last_extracted":    humanize.Time(program.LastExtractedAt),
		},
		"statistics": map[string]interface{}{
			"declarations_count": status.DeclarationsCount,
			"types_count":        status.TypesCount,
			"members_count":      status.MembersCount,
			"namespaces_count":   status.NamespacesCount,
			"database_size":      humanize.Bytes(uint64(status.DatabaseSizeBytes)),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// declarationResponse formats a stored declaration
func declarationResponse(d *storage.Declaration) map[string]interface{} {
	return map[string]interface{}{
		"id":            d.DocID,
		"kind":          d.Kind.String(),
		"namespace":     d.Namespace,
		"title":         d.Title,
		"declaration":   d.Declaration,
		"documentation": d.Documentation,
		"assembly_file": d.AssemblyFile,
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func requiredParam(name string) error {
	return newMCPError(ErrorCodeInvalidParams, name+" parameter is required", map[string]interface{}{
		"param":  name,
		"reason": "missing or empty",
	})
}

func pathError(param string, err error) error {
	code := ErrorCodeInvalidParams
	if errors.Is(err, ErrPathNotFound) {
		code = ErrorCodeModelNotFound
	}
	return newMCPError(code, "invalid path", map[string]interface{}{
		"param":  param,
		"reason": err.Error(),
	})
}

func notExtracted(assembly string) error {
	return newMCPError(ErrorCodeNotExtracted, "assembly not extracted", map[string]interface{}{
		"assembly": assembly,
		"hint":     "use extract_docs first",
	})
}

func unresolved(id string, err error) error {
	return newMCPError(ErrorCodeUnresolved, "identifier did not resolve", map[string]interface{}{
		"id":    id,
		"error": err.Error(),
	})
}

func internalError(message string, err error) error {
	return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// validateFile checks that path is an absolute, readable regular file
func validateFile(path string) error {
	if path == "" {
		return ErrPathRequired
	}
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if info.IsDir() {
		return ErrIsDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()
	return nil
}

// validateModelPath checks the file and its snapshot format
func validateModelPath(path string) error {
	if err := validateFile(path); err != nil {
		return err
	}
	if _, err := metadata.FormatOf(path); err != nil {
		return ErrUnknownFormat
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getKinds extracts a list of declaration kind names
func getKinds(args map[string]interface{}, key string) ([]types.DeclarationKind, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var names []string
	switch v := raw.(type) {
	case []string:
		names = v
	case []interface{}:
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("kind %v is not a string", item)
			}
			names = append(names, name)
		}
	default:
		return nil, fmt.Errorf("kinds must be an array of strings")
	}

	kinds := make([]types.DeclarationKind, 0, len(names))
	for _, name := range names {
		kind, err := types.ParseDeclarationKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrIsDirectory     = errors.New("path is a directory")
	ErrUnknownFormat   = errors.New("model must be a .json, .yaml or .yml file")
)
