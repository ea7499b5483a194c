package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type findReferencesParams struct {
	SymbolName    string `json:"symbol_name"`
	File          string `json:"file"`
	ReferenceType string `json:"reference_type"`
	Limit         int    `json:"limit"`
}

type callHierarchyParams struct {
	SymbolName string `json:"symbol_name"`
	Direction  string `json:"direction"`
	Depth      int    `json:"depth"`
	Limit      int    `json:"limit"`
}

type typeGraphParams struct {
	SymbolName string `json:"symbol_name"`
	Depth      int    `json:"depth"`
	Limit      int    `json:"limit"`
}

type dependencyGraphParams struct {
	SymbolName string `json:"symbol_name"`
	Direction  string `json:"direction"`
	Depth      int    `json:"depth"`
	Limit      int    `json:"limit"`
}

func (s *Server) registerGraphTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "find_references",
		Description: "List inbound references to a symbol, with the evidence occurrences backing each edge.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name":    {Type: "string", Description: "Symbol to find references to"},
				"file":           {Type: "string", Description: "Restrict resolution to a declaration in this file"},
				"reference_type": {Type: "string", Description: "Edge type to filter to: call, reference, import, type, extends, implements, alias"},
				"limit":          {Type: "integer", Description: "Maximum references to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleFindReferences)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_call_hierarchy",
		Description: "Walk the call graph from a symbol, either its callers or callees, up to depth levels deep.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name": {Type: "string", Description: "Root symbol for the hierarchy"},
				"direction":   {Type: "string", Description: "\"callers\" or \"callees\" (default callees)"},
				"depth":       {Type: "integer", Description: "Maximum levels to expand (default 2)"},
				"limit":       {Type: "integer", Description: "Maximum total nodes to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleGetCallHierarchy)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_type_graph",
		Description: "Return the extends/implements/alias/type-reference subgraph around a symbol.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name": {Type: "string", Description: "Root symbol for the type graph"},
				"depth":       {Type: "integer", Description: "Maximum levels to expand (default 2)"},
				"limit":       {Type: "integer", Description: "Maximum total nodes to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleGetTypeGraph)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "explore_dependency_graph",
		Description: "BFS-expand every edge type from a symbol, optionally restricted to one direction.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name": {Type: "string", Description: "Root symbol for the neighborhood"},
				"direction":   {Type: "string", Description: "\"incoming\", \"outgoing\", or omit for both"},
				"depth":       {Type: "integer", Description: "Maximum levels to expand (default 2)"},
				"limit":       {Type: "integer", Description: "Maximum total nodes to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleExploreDependencyGraph)
}

func (s *Server) handleFindReferences(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findReferencesParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("find_references", fmt.Errorf("invalid parameters: %w", err))
	}
	hits, err := s.engine.Query().FindReferences(p.SymbolName, p.File, p.ReferenceType, p.Limit)
	if err != nil {
		return errorResponse("find_references", err)
	}
	return jsonResponse(hits)
}

func (s *Server) handleGetCallHierarchy(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p callHierarchyParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_call_hierarchy", fmt.Errorf("invalid parameters: %w", err))
	}
	nodes, err := s.engine.Query().GetCallHierarchy(p.SymbolName, "", p.Direction, p.Depth, p.Limit)
	if err != nil {
		return errorResponse("get_call_hierarchy", err)
	}
	return jsonResponse(nodes)
}

func (s *Server) handleGetTypeGraph(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p typeGraphParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_type_graph", fmt.Errorf("invalid parameters: %w", err))
	}
	nodes, err := s.engine.Query().GetTypeGraph(p.SymbolName, "", p.Depth, p.Limit)
	if err != nil {
		return errorResponse("get_type_graph", err)
	}
	return jsonResponse(nodes)
}

func (s *Server) handleExploreDependencyGraph(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p dependencyGraphParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("explore_dependency_graph", fmt.Errorf("invalid parameters: %w", err))
	}
	nodes, err := s.engine.Query().ExploreDependencyGraph(p.SymbolName, "", p.Direction, p.Depth, p.Limit)
	if err != nil {
		return errorResponse("explore_dependency_graph", err)
	}
	return jsonResponse(nodes)
}
