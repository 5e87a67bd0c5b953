package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/csdocs/internal/config"
	"github.com/dshills/csdocs/internal/extractor"
	"github.com/dshills/csdocs/internal/pipeline"
	"github.com/dshills/csdocs/internal/render"
	"github.com/dshills/csdocs/internal/searcher"
	"github.com/dshills/csdocs/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "csdocs"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	pipeline *pipeline.Pipeline
	searcher *searcher.Searcher
	engine   *render.Engine
	lock     extractor.RunLock
	cfg      *config.Config
	logger   *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	srch, err := searcher.NewSearcher(store, searcher.Options{CacheSize: cfg.Search.CacheSize})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize searcher: %w", err)
	}

	pipe := pipeline.New(
		pipeline.WithStorage(store),
		pipeline.WithSearcher(srch),
		pipeline.WithStrictOverloads(cfg.Resolver.StrictOverloads),
		pipeline.WithLogger(logger),
	)

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		storage:  store,
		pipeline: pipe,
		searcher: srch,
		engine:   render.NewEngine(),
		cfg:      cfg,
		logger:   logger,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the database
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(extractDocsTool(), s.handleExtractDocs)
	s.mcp.AddTool(resolveIdentifierTool(), s.handleResolveIdentifier)
	s.mcp.AddTool(searchDeclarationsTool(), s.handleSearchDeclarations)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
