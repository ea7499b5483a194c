package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonResponse marshals data as one text content block, the same shape
// standardbeagle-lci's createJSONResponse uses for every MCP tool result.
func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

// errorResponse reports a tool-level failure inside the result object
// (IsError: true) rather than as a transport error, so the calling model
// can see what went wrong and retry with corrected arguments.
func errorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	resp, marshalErr := jsonResponse(map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	resp.IsError = true
	return resp, nil
}
