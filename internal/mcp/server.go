// Package mcpserver exposes foreign tables and sync jobs to MCP clients.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sheetsfdw/internal/etl"
	"sheetsfdw/internal/service"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// Server is the MCP server for sheetsfdw.
// It exposes tools, resources, and prompts so agents can read foreign
// tables and drive sync jobs.
type Server struct {
	mcp    *server.MCPServer
	engine *etl.Engine
	sync   *service.SyncService
	logger *slog.Logger
}

// Deps holds everything the MCP server needs from the caller.
type Deps struct {
	Engine *etl.Engine
	Sync   *service.SyncService // nil hides the sync tools
	Logger *slog.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine: deps.Engine,
		sync:   deps.Sync,
		logger: logger.With("component", "mcp"),
	}

	s.mcp = server.NewMCPServer(
		"sheetsfdw-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerCatalogTools()
	if s.sync != nil {
		s.registerSyncTools()
	}
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult reports a failed call together with its error kind.
func errorResult(kind string, err error) *mcp.CallToolResult {
	res := textResult(fmt.Sprintf("%s error: %v", kind, err))
	res.IsError = true
	return res
}

func boolPtr(v bool) *bool { return &v }

