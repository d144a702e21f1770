package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/planwise/planwise/internal/document"
	"github.com/planwise/planwise/internal/knowledge"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/internal/project"
	"github.com/planwise/planwise/internal/sprint"
	"github.com/planwise/planwise/internal/stats"
	"github.com/planwise/planwise/internal/task"
	"github.com/planwise/planwise/internal/team"
	"github.com/planwise/planwise/pkg/cerr"
)

// Services bundles the domain services the tool handlers call into.
type Services struct {
	Project       *project.Service
	Team          *team.Service
	Task          *task.Service
	Sprint        *sprint.Service
	Documentation *document.Service
	Knowledge     *knowledge.Service
	Stats         *stats.Service
	Permission    *permission.Service
}

type handlerFunc func(ctx context.Context, args map[string]any, userID string) (string, error)

// Dispatcher maps tool names to handlers. It is the single catch-all
// boundary for the tool-call path: Dispatch always returns a ToolResponse,
// it never lets a handler error or panic reach the transport.
type Dispatcher struct {
	registry *Registry
	handlers map[string]handlerFunc
	services Services
}

func NewDispatcher(services Services) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		handlers: map[string]handlerFunc{},
		services: services,
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

func (d *Dispatcher) register(def ToolDefinition, h handlerFunc) {
	d.registry.add(def)
	d.handlers[def.Name] = h
}

// Dispatch resolves and runs a tool. Required fields are checked against the
// tool's input schema before the handler runs, so malformed calls fail with
// a clear message instead of surfacing as handler errors.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any, userID string) (resp *ToolResponse) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "tool handler panicked", "tool", name, "panic", r)
			resp = errorResponse(fmt.Sprintf("Error: internal error in tool %s", name))
		}
	}()

	handler, ok := d.handlers[name]
	if !ok {
		return errorResponse("Error: Unknown tool: " + name)
	}
	if args == nil {
		args = map[string]any{}
	}

	def := d.registry.byName[name]
	for _, field := range def.InputSchema.Required {
		if !hasArg(args, field) {
			return errorResponse(fmt.Sprintf("Error: missing required argument: %s", field))
		}
	}

	text, err := handler(ctx, args, userID)
	if err != nil {
		return errorResponse("Error: " + errorMessage(err))
	}
	return textResponse(text)
}

func hasArg(args map[string]any, field string) bool {
	v, ok := args[field]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func argStringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// errorMessage prefers the user-facing message of a taxonomy error over the
// full wrapped chain.
func errorMessage(err error) string {
	var cErr *cerr.Error
	if errors.As(err, &cErr) {
		return cErr.Msg
	}
	return err.Error()
}

// toJSON renders a read result as indented JSON text.
func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}
	return string(data), nil
}
