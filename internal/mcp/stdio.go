package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewStdioServer exposes the tool catalog over an MCP stdio session. The
// session carries no authentication handshake, so every call runs as userID.
func NewStdioServer(name, version, userID string, dispatcher *Dispatcher) (*mcpserver.MCPServer, error) {
	s := mcpserver.NewMCPServer(
		name,
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	for _, def := range dispatcher.Registry().List() {
		schema, err := json.Marshal(def.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema for tool %s: %w", def.Name, err)
		}
		toolName := def.Name
		s.AddTool(
			mcplib.NewToolWithRawSchema(def.Name, def.Description, schema),
			func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				resp := dispatcher.Dispatch(ctx, toolName, request.GetArguments(), userID)
				return toCallToolResult(resp), nil
			},
		)
	}
	return s, nil
}

// ServeStdio runs the server until stdin closes or ctx is cancelled.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s, mcpserver.WithStdioContextFunc(func(context.Context) context.Context {
		return ctx
	}))
}

func toCallToolResult(resp *ToolResponse) *mcplib.CallToolResult {
	content := make([]mcplib.Content, 0, len(resp.Content))
	for _, block := range resp.Content {
		content = append(content, mcplib.TextContent{Type: block.Type, Text: block.Text})
	}
	return &mcplib.CallToolResult{Content: content, IsError: resp.IsError}
}
