package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const jsonRPCVersion = "2.0"

// JSON-RPC 2.0 error codes.
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  any           `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
	ID      any           `json:"id"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func successResponse(id, result any) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: jsonRPCVersion, Result: result, ID: id}
}

func rpcErrorResponse(id any, code int, message string, data any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: jsonRPCVersion,
		Error:   &JSONRPCError{Code: code, Message: message, Data: data},
		ID:      id,
	}
}

// HandleRequest processes one JSON-RPC request on behalf of userID. It never
// panics past this boundary: routing failures become -32603 responses.
func (d *Dispatcher) HandleRequest(ctx context.Context, req *JSONRPCRequest, userID string) (resp *JSONRPCResponse) {
	var id any
	if req != nil {
		id = req.ID
	}
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "json-rpc handler panicked", "panic", r)
			resp = rpcErrorResponse(id, codeInternalError, "Internal error", fmt.Sprint(r))
		}
	}()

	if req == nil || req.JSONRPC != jsonRPCVersion {
		return rpcErrorResponse(id, codeInvalidRequest, `Invalid Request: jsonrpc must be "2.0"`, nil)
	}

	switch req.Method {
	case "tools/list":
		return successResponse(id, map[string]any{"tools": d.registry.List()})

	case "tools/call":
		var params callParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return rpcErrorResponse(id, codeInvalidParams, "Invalid params: "+err.Error(), nil)
			}
		}
		if params.Name == "" {
			return rpcErrorResponse(id, codeInvalidParams, "Invalid params: name is required", nil)
		}
		if params.Arguments == nil {
			params.Arguments = map[string]any{}
		}
		return successResponse(id, d.Dispatch(ctx, params.Name, params.Arguments, userID))

	default:
		return rpcErrorResponse(id, codeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}
