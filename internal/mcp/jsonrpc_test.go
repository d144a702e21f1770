package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/planwise/planwise/internal/user"
)

func TestHandleRequestInvalidVersion(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.HandleRequest(context.Background(), &JSONRPCRequest{
		JSONRPC: "1.0",
		Method:  "tools/list",
		ID:      float64(7),
	}, "admin")

	if resp.JSONRPC != "2.0" {
		t.Errorf("response version = %s, want 2.0", resp.JSONRPC)
	}
	if resp.Error == nil || resp.Error.Code != -32600 {
		t.Fatalf("got %+v, want -32600", resp.Error)
	}
	if got, want := resp.Error.Message, `Invalid Request: jsonrpc must be "2.0"`; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
	if resp.ID != float64(7) {
		t.Errorf("id = %v, want 7", resp.ID)
	}
}

func TestHandleRequestNil(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.HandleRequest(context.Background(), nil, "admin")
	if resp.Error == nil || resp.Error.Code != -32600 {
		t.Fatalf("got %+v, want -32600", resp.Error)
	}
	if resp.ID != nil {
		t.Errorf("id = %v, want null", resp.ID)
	}

	// The id field must serialize as null, not be omitted.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	if !strings.Contains(string(data), `"id":null`) {
		t.Errorf("serialized response should carry id null: %s", data)
	}
}

func TestHandleRequestToolsList(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.HandleRequest(context.Background(), &JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "tools/list",
		ID:      "list-1",
	}, "admin")

	if resp.Error != nil {
		t.Fatalf("tools/list failed: %+v", resp.Error)
	}
	if resp.ID != "list-1" {
		t.Errorf("id = %v, want list-1", resp.ID)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result has type %T, want map", resp.Result)
	}
	tools, ok := result["tools"].([]ToolDefinition)
	if !ok {
		t.Fatalf("tools has type %T, want []ToolDefinition", result["tools"])
	}
	if len(tools) != len(f.dispatcher.Registry().List()) {
		t.Errorf("got %d tools, want %d", len(tools), len(f.dispatcher.Registry().List()))
	}
}

func TestHandleRequestToolsCallMissingName(t *testing.T) {
	f := newDispatcherFixture(t)

	tests := []struct {
		name   string
		params string
	}{
		{"empty object", `{}`},
		{"no params", ``},
		{"empty name", `{"name": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &JSONRPCRequest{JSONRPC: "2.0", Method: "tools/call", ID: float64(5)}
			if tt.params != "" {
				req.Params = json.RawMessage(tt.params)
			}
			resp := f.dispatcher.HandleRequest(context.Background(), req, "admin")
			if resp.Error == nil || resp.Error.Code != -32602 {
				t.Fatalf("got %+v, want -32602", resp.Error)
			}
			if got, want := resp.Error.Message, "Invalid params: name is required"; got != want {
				t.Errorf("got message %q, want %q", got, want)
			}
			if resp.ID != float64(5) {
				t.Errorf("id = %v, want 5", resp.ID)
			}
		})
	}
}

func TestHandleRequestMethodNotFound(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.HandleRequest(context.Background(), &JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "resources/list",
		ID:      float64(9),
	}, "admin")

	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("got %+v, want -32601", resp.Error)
	}
	if got, want := resp.Error.Message, "Method not found: resources/list"; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
}

func TestHandleRequestToolsCall(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "alice", user.SystemRoleUser)

	resp := f.dispatcher.HandleRequest(context.Background(), &JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "create_project", "arguments": {"name": "Apollo"}}`),
		ID:      float64(11),
	}, "alice")

	if resp.Error != nil {
		t.Fatalf("tools/call failed: %+v", resp.Error)
	}
	result, ok := resp.Result.(*ToolResponse)
	if !ok {
		t.Fatalf("result has type %T, want *ToolResponse", resp.Result)
	}
	if result.IsError {
		t.Fatalf("tool call failed: %s", result.Content[0].Text)
	}
	if !strings.HasPrefix(result.Content[0].Text, `Created project "Apollo"`) {
		t.Errorf("unexpected confirmation: %q", result.Content[0].Text)
	}
}

func TestHandleRequestToolErrorStaysInEnvelope(t *testing.T) {
	f := newDispatcherFixture(t)

	// Unknown tools are a tool-level failure, not a JSON-RPC error.
	resp := f.dispatcher.HandleRequest(context.Background(), &JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "bogus_tool"}`),
		ID:      float64(13),
	}, "admin")

	if resp.Error != nil {
		t.Fatalf("expected a success envelope, got %+v", resp.Error)
	}
	result, ok := resp.Result.(*ToolResponse)
	if !ok {
		t.Fatalf("result has type %T, want *ToolResponse", resp.Result)
	}
	if !result.IsError {
		t.Fatal("expected IsError on the tool response")
	}
	if got, want := result.Content[0].Text, "Error: Unknown tool: bogus_tool"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
