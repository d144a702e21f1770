package mcp

import (
	"github.com/planwise/planwise/pkg/cerr"
)

// Registry is the static tool catalog. Tools enumerate in declaration order
// so both transports present a deterministic listing.
type Registry struct {
	order  []string
	byName map[string]ToolDefinition
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]ToolDefinition{}}
}

func (r *Registry) add(def ToolDefinition) {
	if _, ok := r.byName[def.Name]; ok {
		panic("duplicate tool registration: " + def.Name)
	}
	r.order = append(r.order, def.Name)
	r.byName[def.Name] = def
}

func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.byName[name])
	}
	return defs
}

func (r *Registry) Get(name string) (ToolDefinition, error) {
	def, ok := r.byName[name]
	if !ok {
		return ToolDefinition{}, cerr.NewError(cerr.NotFound, "tool not found: "+name, nil)
	}
	return def, nil
}
