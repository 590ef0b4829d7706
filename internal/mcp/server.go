package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(a Agent, version string) *Server {
	if version == "" {
		version = "dev"
	}
	impl := &mcp.Implementation{
		Name:    "support-router",
		Version: version,
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_support",
		Description: "Answer a customer support question from the FAQ or from customer reviews, or escalate it to human support by email. Always returns exactly one answer.",
	}, makeAskHandler(a))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report what the support agent can answer from: FAQ sections, review counts, and whether the review index is available.",
	}, makeStatusHandler(a))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
