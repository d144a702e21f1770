package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	auditrepo "github.com/planwise/planwise/internal/audit/repositoryimpl"
	"github.com/planwise/planwise/internal/document"
	documentrepo "github.com/planwise/planwise/internal/document/repositoryimpl"
	"github.com/planwise/planwise/internal/eventbus"
	"github.com/planwise/planwise/internal/knowledge"
	knowledgerepo "github.com/planwise/planwise/internal/knowledge/repositoryimpl"
	"github.com/planwise/planwise/internal/permission"
	permissionrepo "github.com/planwise/planwise/internal/permission/repositoryimpl"
	"github.com/planwise/planwise/internal/project"
	projectrepo "github.com/planwise/planwise/internal/project/repositoryimpl"
	"github.com/planwise/planwise/internal/sprint"
	sprintrepo "github.com/planwise/planwise/internal/sprint/repositoryimpl"
	"github.com/planwise/planwise/internal/stats"
	"github.com/planwise/planwise/internal/task"
	taskrepo "github.com/planwise/planwise/internal/task/repositoryimpl"
	"github.com/planwise/planwise/internal/team"
	teamrepo "github.com/planwise/planwise/internal/team/repositoryimpl"
	"github.com/planwise/planwise/internal/user"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/storage"
)

type dispatcherFixture struct {
	dispatcher  *Dispatcher
	users       user.Repository
	memberships permission.MembershipRepository
	projects    *project.Service
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	users := userrepo.NewYAMLRepository(store)
	memberships := permissionrepo.NewYAMLRepository(store)
	taskRepo := taskrepo.NewYAMLRepository(store)
	documentRepo := documentrepo.NewYAMLRepository(store)
	sprintRepo := sprintrepo.NewYAMLRepository(store)
	bus := eventbus.New()

	gate := permission.NewService(users, memberships, auditrepo.NewYAMLRepository(store))
	projects := project.NewService(projectrepo.NewYAMLRepository(store), memberships, gate, bus)
	d := NewDispatcher(Services{
		Project:       projects,
		Team:          team.NewService(teamrepo.NewYAMLRepository(store), gate),
		Task:          task.NewService(taskRepo, gate, bus),
		Sprint:        sprint.NewService(sprintRepo, gate),
		Documentation: document.NewService(documentRepo, gate),
		Knowledge:     knowledge.NewService(knowledgerepo.NewYAMLRepository(store), gate),
		Stats:         stats.NewService(taskRepo, memberships, documentRepo, sprintRepo, gate),
		Permission:    gate,
	})
	return &dispatcherFixture{dispatcher: d, users: users, memberships: memberships, projects: projects}
}

func (f *dispatcherFixture) seedUser(t *testing.T, id string, role user.SystemRole) {
	t.Helper()
	now := time.Now()
	err := f.users.Create(context.Background(), &user.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: id,
		SystemRole:  role,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}

func (f *dispatcherFixture) seedMembership(t *testing.T, projectID, userID string, role permission.ProjectRole) {
	t.Helper()
	now := time.Now()
	err := f.memberships.Upsert(context.Background(), &permission.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed membership: %v", err)
	}
}

func errorText(t *testing.T, resp *ToolResponse) string {
	t.Helper()
	if !resp.IsError {
		t.Fatal("expected an error response")
	}
	if len(resp.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(resp.Content))
	}
	return resp.Content[0].Text
}

func TestDispatchUnknownTool(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "unknown_tool_xyz", nil, "admin")
	if got, want := errorText(t, resp), "Error: Unknown tool: unknown_tool_xyz"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "admin", user.SystemRoleAdmin)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"no args", "create_project", nil, "Error: missing required argument: name"},
		{"empty string", "create_project", map[string]any{"name": ""}, "Error: missing required argument: name"},
		{"null value", "create_project", map[string]any{"name": nil}, "Error: missing required argument: name"},
		{"second field missing", "create_task", map[string]any{"project_id": "p1"}, "Error: missing required argument: title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.dispatcher.Dispatch(context.Background(), tt.tool, tt.args, "admin")
			if got := errorText(t, resp); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatchCreateProject(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "alice", user.SystemRoleUser)

	resp := f.dispatcher.Dispatch(context.Background(), "create_project", map[string]any{"name": "Apollo"}, "alice")
	if resp.IsError {
		t.Fatalf("create_project failed: %s", resp.Content[0].Text)
	}
	text := resp.Content[0].Text
	if !strings.HasPrefix(text, `Created project "Apollo" (id: `) {
		t.Errorf("unexpected confirmation: %q", text)
	}

	// The creator becomes OWNER of the new project.
	projects, _, err := f.projects.List(context.Background(), "alice", 0, 0)
	if err != nil {
		t.Fatalf("failed to list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	m, err := f.memberships.Get(context.Background(), projects[0].ID, "alice")
	if err != nil {
		t.Fatalf("creator has no membership: %v", err)
	}
	if m.Role != permission.ProjectRoleOwner {
		t.Errorf("creator role = %s, want OWNER", m.Role)
	}
}

func TestDispatchPermissionDenied(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "viewer", user.SystemRoleGuest)
	f.seedMembership(t, "p1", "viewer", permission.ProjectRoleViewer)

	resp := f.dispatcher.Dispatch(context.Background(), "create_task",
		map[string]any{"project_id": "p1", "title": "sneaky"}, "viewer")
	if got, want := errorText(t, resp), "Error: permission denied: task.create"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDispatchReadReturnsJSON(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "admin", user.SystemRoleAdmin)

	create := f.dispatcher.Dispatch(context.Background(), "create_project", map[string]any{"name": "Apollo"}, "admin")
	if create.IsError {
		t.Fatalf("create_project failed: %s", create.Content[0].Text)
	}

	resp := f.dispatcher.Dispatch(context.Background(), "get_projects", nil, "admin")
	if resp.IsError {
		t.Fatalf("get_projects failed: %s", resp.Content[0].Text)
	}
	var result struct {
		Projects []map[string]any `json:"projects"`
		Total    int              `json:"total"`
	}
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &result); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if len(result.Projects) != 1 || result.Total != 1 {
		t.Fatalf("got %d projects (total %d), want 1", len(result.Projects), result.Total)
	}
	if result.Projects[0]["name"] != "Apollo" {
		t.Errorf("got name %v, want Apollo", result.Projects[0]["name"])
	}
}

func TestDispatchTaskLifecycle(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "alice", user.SystemRoleUser)
	ctx := context.Background()

	p, err := f.projects.Create(ctx, "alice", "Apollo", "")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	create := f.dispatcher.Dispatch(ctx, "create_task", map[string]any{
		"project_id": p.ID,
		"title":      "Write launch checklist",
		"priority":   "HIGH",
	}, "alice")
	if create.IsError {
		t.Fatalf("create_task failed: %s", create.Content[0].Text)
	}

	list := f.dispatcher.Dispatch(ctx, "get_tasks", map[string]any{"project_id": p.ID}, "alice")
	if list.IsError {
		t.Fatalf("get_tasks failed: %s", list.Content[0].Text)
	}
	var result struct {
		Tasks []map[string]any `json:"tasks"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal([]byte(list.Content[0].Text), &result); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if len(result.Tasks) != 1 || result.Total != 1 {
		t.Fatalf("got %d tasks (total %d), want 1", len(result.Tasks), result.Total)
	}
	if result.Tasks[0]["status"] != "TODO" {
		t.Errorf("new task status = %v, want TODO", result.Tasks[0]["status"])
	}
	if result.Tasks[0]["priority"] != "HIGH" {
		t.Errorf("task priority = %v, want HIGH", result.Tasks[0]["priority"])
	}
}

func TestDispatchInvalidEnumValue(t *testing.T) {
	f := newDispatcherFixture(t)
	f.seedUser(t, "alice", user.SystemRoleUser)
	ctx := context.Background()

	p, err := f.projects.Create(ctx, "alice", "Apollo", "")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	resp := f.dispatcher.Dispatch(ctx, "create_task", map[string]any{
		"project_id": p.ID,
		"title":      "bad priority",
		"priority":   "CRITICAL",
	}, "alice")
	if !resp.IsError {
		t.Fatal("expected an error for an invalid priority")
	}
	if !strings.Contains(resp.Content[0].Text, "priority") {
		t.Errorf("error should name the bad field: %q", resp.Content[0].Text)
	}
}
