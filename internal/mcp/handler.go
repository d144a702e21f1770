package mcp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planwise/planwise/internal/auth"
	"github.com/planwise/planwise/pkg/cerr"
)

// Handler adapts the registry, dispatcher and JSON-RPC bridge to HTTP.
type Handler struct {
	name       string
	version    string
	dispatcher *Dispatcher
}

func NewHandler(name, version string, dispatcher *Dispatcher) *Handler {
	return &Handler{name: name, version: version, dispatcher: dispatcher}
}

// Routes mounts the MCP surface. Info and catalog endpoints are public;
// invocation endpoints require an authenticated caller.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/mcp/info", h.info)
	r.Get("/mcp/tools", h.listTools)
	r.Get("/mcp/tools/{toolName}", h.getTool)
	r.Post("/mcp", h.jsonRPC)
	r.Post("/mcp/tools/{toolName}", h.callTool)
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    h.name,
		"version": h.version,
		"capabilities": map[string]bool{
			"tools":     true,
			"resources": false,
			"prompts":   false,
		},
	})
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.dispatcher.Registry().List()})
}

func (h *Handler) getTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "toolName")
	def, err := h.dispatcher.Registry().Get(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "not_found",
			"message": "tool not found: " + name,
		})
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (h *Handler) jsonRPC(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "authentication required", nil)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, rpcErrorResponse(nil, codeInvalidRequest, "Invalid Request: malformed JSON", nil))
		return
	}
	writeJSON(w, http.StatusOK, h.dispatcher.HandleRequest(r.Context(), &req, userID))
}

func (h *Handler) callTool(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "authentication required", nil)
		return
	}

	name := chi.URLParam(r, "toolName")
	args := map[string]any{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "malformed JSON body",
			})
			return
		}
	}

	resp := h.dispatcher.Dispatch(r.Context(), name, args, userID)
	if resp.IsError {
		msg := ""
		if len(resp.Content) > 0 {
			msg = resp.Content[0].Text
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   msg,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  resp,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
