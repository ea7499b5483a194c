package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getDefinitionParams struct {
	SymbolName string `json:"symbol_name"`
	File       string `json:"file"`
	Limit      int    `json:"limit"`
}

type getFileSymbolsParams struct {
	FilePath     string `json:"file_path"`
	ExportedOnly bool   `json:"exported_only"`
}

type getUsageExamplesParams struct {
	SymbolName string `json:"symbol_name"`
	Limit      int    `json:"limit"`
}

type hydrateSymbolsParams struct {
	IDs  []string `json:"ids"`
	Mode string   `json:"mode"`
}

func (s *Server) registerDetailTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_definition",
		Description: "Return the full declaration(s) of a symbol. Without file, every matching symbol across the index is returned.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name": {Type: "string", Description: "Symbol to define"},
				"file":        {Type: "string", Description: "Restrict to the declaration in this file"},
				"limit":       {Type: "integer", Description: "Maximum definitions to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleGetDefinition)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_file_symbols",
		Description: "List every symbol declared in a file, without source bodies.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path":     {Type: "string", Description: "File to list symbols for"},
				"exported_only": {Type: "boolean", Description: "Restrict to exported/public symbols"},
			},
			Required: []string{"file_path"},
		},
	}, s.handleGetFileSymbols)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_usage_examples",
		Description: "Return recorded call/construct/reference sites for a symbol.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_name": {Type: "string", Description: "Symbol to find usage examples for"},
				"limit":       {Type: "integer", Description: "Maximum examples to return (default 20)"},
			},
			Required: []string{"symbol_name"},
		},
	}, s.handleGetUsageExamples)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "hydrate_symbols",
		Description: "Resolve a batch of symbol ids back to full definitions, or a freshly assembled context bundle when mode is \"context\".",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"ids":  {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Symbol ids to hydrate"},
				"mode": {Type: "string", Description: "\"full\" (default) or \"context\""},
			},
			Required: []string{"ids"},
		},
	}, s.handleHydrateSymbols)
}

func (s *Server) handleGetDefinition(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getDefinitionParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_definition", fmt.Errorf("invalid parameters: %w", err))
	}
	syms, err := s.engine.Query().GetDefinition(p.SymbolName, p.File, p.Limit)
	if err != nil {
		return errorResponse("get_definition", err)
	}
	return jsonResponse(syms)
}

func (s *Server) handleGetFileSymbols(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getFileSymbolsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_file_symbols", fmt.Errorf("invalid parameters: %w", err))
	}
	headers, err := s.engine.Query().GetFileSymbols(p.FilePath, p.ExportedOnly)
	if err != nil {
		return errorResponse("get_file_symbols", err)
	}
	return jsonResponse(headers)
}

func (s *Server) handleGetUsageExamples(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getUsageExamplesParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_usage_examples", fmt.Errorf("invalid parameters: %w", err))
	}
	examples, err := s.engine.Query().GetUsageExamples(p.SymbolName, "", p.Limit)
	if err != nil {
		return errorResponse("get_usage_examples", err)
	}
	return jsonResponse(examples)
}

func (s *Server) handleHydrateSymbols(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p hydrateSymbolsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("hydrate_symbols", fmt.Errorf("invalid parameters: %w", err))
	}
	result, err := s.engine.Query().HydrateSymbols(p.IDs, p.Mode)
	if err != nil {
		return errorResponse("hydrate_symbols", err)
	}
	return jsonResponse(result)
}
