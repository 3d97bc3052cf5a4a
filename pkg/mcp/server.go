// Package mcp exposes the documentation catalog to agents over the Model
// Context Protocol.
package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/vuespec/pkg/catalog"
	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/mcplog"
	"github.com/gnana997/vuespec/pkg/render"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for vuespec, exposing catalog queries
// and on-demand extraction.
type Server struct {
	mcpServer *server.MCPServer

	mu    sync.RWMutex
	query *catalog.QueryService

	engine     *docgen.Engine // may be nil, disables parse_component
	renderOpts render.Options
	logger     *mcplog.Logger // may be nil, disables call logging
}

// NewServer creates a new MCP server backed by the given QueryService. engine
// and logger are optional.
func NewServer(qs *catalog.QueryService, engine *docgen.Engine, logger *mcplog.Logger) *Server {
	s := &Server{
		query:      qs,
		engine:     engine,
		renderOpts: render.DefaultOptions(),
		logger:     logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("vuespec", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentDocsTool(), Handler: s.handleGetComponentDocs},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		server.ServerTool{Tool: parseComponentTool(), Handler: s.handleParseComponent},
	)

	return s
}

// SetRenderOptions replaces the column labels used for markdown output.
func (s *Server) SetRenderOptions(opts render.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderOpts = opts
}

// Reload swaps the catalog served by every tool. In-flight calls finish
// against the catalog they started with.
func (s *Server) Reload(qs *catalog.QueryService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = qs
}

func (s *Server) snapshot() (*catalog.QueryService, render.Options) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query, s.renderOpts
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
