// Package mcpserver exposes a codelens.Engine over the Model Context
// Protocol's stdio transport: one AddTool call per entry in spec.md
// section 6's 13-tool table, each delegating to the root codelens
// package's Query*/Engine operations and marshaling the result as JSON
// tool content, the same shape as the teacher pack's own MCP servers.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fernbridge/codelens/internal/logging"

	"github.com/fernbridge/codelens"
)

// Server wraps an mcp.Server bound to one codelens.Engine.
type Server struct {
	engine *codelens.Engine
	mcp    *mcp.Server
	log    *logging.Logger
}

// New builds a Server and registers every tool against engine.
func New(engine *codelens.Engine) *Server {
	s := &Server{
		engine: engine,
		log:    logging.New("mcpserver"),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "codelens",
		Version: "0.1.0",
	}, nil)
	s.registerTools()
	return s
}

// Run blocks serving tool calls over stdio until ctx is canceled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcpserver: run: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.registerSearchTools()
	s.registerGraphTools()
	s.registerDetailTools()
	s.registerDiscoveryTools()
}
