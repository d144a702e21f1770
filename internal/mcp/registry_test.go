package mcp

import (
	"testing"

	"github.com/planwise/planwise/pkg/cerr"
)

func TestRegistryListOrderIsStable(t *testing.T) {
	f := newDispatcherFixture(t)
	reg := f.dispatcher.Registry()

	first := reg.List()
	if len(first) == 0 {
		t.Fatal("catalog is empty")
	}
	if first[0].Name != "get_projects" {
		t.Errorf("first tool = %s, want get_projects", first[0].Name)
	}

	second := reg.List()
	if len(second) != len(first) {
		t.Fatalf("catalog size changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Fatalf("order changed at %d: %s vs %s", i, first[i].Name, second[i].Name)
		}
	}
}

func TestRegistryGet(t *testing.T) {
	f := newDispatcherFixture(t)
	reg := f.dispatcher.Registry()

	def, err := reg.Get("create_project")
	if err != nil {
		t.Fatalf("Get(create_project) failed: %v", err)
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "name" {
		t.Errorf("create_project required = %v, want [name]", def.InputSchema.Required)
	}
	if _, ok := def.InputSchema.Properties["description"]; !ok {
		t.Error("create_project should accept a description property")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Registry().Get("no_such_tool")
	if !cerr.IsCode(err, cerr.NotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestRegistryEveryToolHasHandlerAndSchema(t *testing.T) {
	f := newDispatcherFixture(t)

	for _, def := range f.dispatcher.Registry().List() {
		if _, ok := f.dispatcher.handlers[def.Name]; !ok {
			t.Errorf("tool %s has no handler", def.Name)
		}
		if def.Description == "" {
			t.Errorf("tool %s has no description", def.Name)
		}
		if def.InputSchema.Type != "object" {
			t.Errorf("tool %s schema type = %s, want object", def.Name, def.InputSchema.Type)
		}
		if def.InputSchema.Required == nil {
			t.Errorf("tool %s required list is nil", def.Name)
		}
		for _, field := range def.InputSchema.Required {
			if _, ok := def.InputSchema.Properties[field]; !ok {
				t.Errorf("tool %s requires %s but does not declare it", def.Name, field)
			}
		}
	}
}
