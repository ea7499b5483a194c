package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getSimilarityClusterParams struct {
	SymbolName string `json:"symbol_name"`
	Limit      int    `json:"limit"`
}

type reportSelectionParams struct {
	Query            string `json:"query"`
	SelectedSymbolID string `json:"selected_symbol_id"`
	Position         int    `json:"position"`
}

func (s *Server) registerDiscoveryTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_index_stats",
		Description: "Report symbol/edge/file counts and the most recent index run's metadata.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleGetIndexStats)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_similarity_cluster",
		Description: "Return the near-duplicate peers of a symbol.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name": {Type: "string", Description: "Symbol to find peers for"},
				"limit":       {Type: "integer", Description: "Maximum peers to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleGetSimilarityCluster)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "report_selection",
		Description: "Record which ranked search result a caller actually used, feeding the learning boost for future identical queries.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query":               {Type: "string", Description: "The original search_code query text"},
				"selected_symbol_id":  {Type: "string", Description: "Id of the hit that was actually used"},
				"position":            {Type: "integer", Description: "Rank position of the selected hit in the original result list"},
			},
			Required: []string{"query", "selected_symbol_id", "position"},
		},
	}, s.handleReportSelection)
}

func (s *Server) handleGetIndexStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.engine.Query().GetIndexStats()
	if err != nil {
		return errorResponse("get_index_stats", err)
	}
	return jsonResponse(stats)
}

func (s *Server) handleGetSimilarityCluster(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getSimilarityClusterParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_similarity_cluster", fmt.Errorf("invalid parameters: %w", err))
	}
	peers, err := s.engine.Query().GetSimilarityCluster(p.SymbolName, "", p.Limit)
	if err != nil {
		return errorResponse("get_similarity_cluster", err)
	}
	return jsonResponse(peers)
}

func (s *Server) handleReportSelection(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reportSelectionParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("report_selection", fmt.Errorf("invalid parameters: %w", err))
	}
	if err := s.engine.Query().ReportSelection(p.Query, p.SelectedSymbolID, p.Position); err != nil {
		return errorResponse("report_selection", err)
	}
	return jsonResponse(map[string]interface{}{"acknowledged": true})
}
