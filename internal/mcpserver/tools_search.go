package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type searchCodeParams struct {
	Query        string `json:"query"`
	Limit        int    `json:"limit"`
	ExportedOnly bool   `json:"exported_only"`
}

type refreshIndexParams struct {
	Files []string `json:"files"`
}

func (s *Server) registerSearchTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_code",
		Description: "Hybrid keyword/vector/graph search over the indexed codebase, returning ranked hits plus an assembled, token-budgeted context bundle.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query":         {Type: "string", Description: "Natural-language or identifier search query"},
				"limit":         {Type: "integer", Description: "Maximum number of hits to return (default 20)"},
				"exported_only": {Type: "boolean", Description: "Restrict to exported/public symbols"},
			},
			Required: []string{"query"},
		},
	}, s.handleSearchCode)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "refresh_index",
		Description: "Re-index the whole repository, or only the named files when files is given.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"files": {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Paths to re-index; omit to scan every configured repo root"},
			},
		},
	}, s.handleRefreshIndex)
}

func (s *Server) handleSearchCode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchCodeParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("search_code", fmt.Errorf("invalid parameters: %w", err))
	}
	result, err := s.engine.Query().SearchCode(p.Query, p.Limit, p.ExportedOnly)
	if err != nil {
		return errorResponse("search_code", err)
	}
	return jsonResponse(result)
}

func (s *Server) handleRefreshIndex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p refreshIndexParams
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
			return errorResponse("refresh_index", fmt.Errorf("invalid parameters: %w", err))
		}
	}
	run, err := s.engine.RefreshIndex(p.Files)
	if err != nil {
		return errorResponse("refresh_index", err)
	}
	return jsonResponse(run)
}
