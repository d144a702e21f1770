package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/planwise/planwise/internal/agent"
	agentrepo "github.com/planwise/planwise/internal/agent/repositoryimpl"
	auditrepo "github.com/planwise/planwise/internal/audit/repositoryimpl"
	"github.com/planwise/planwise/internal/permission"
	permissionrepo "github.com/planwise/planwise/internal/permission/repositoryimpl"
	"github.com/planwise/planwise/internal/user"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

// fakeRunner records the last invocation instead of spawning a session.
type fakeRunner struct {
	lastSystemPrompt string
	lastPrompt       string
	lastMaxTurns     int
	execution        *agent.Execution
	err              error
}

func (r *fakeRunner) Run(_ context.Context, systemPrompt, prompt, _ string, maxTurns int) (*agent.Execution, error) {
	r.lastSystemPrompt = systemPrompt
	r.lastPrompt = prompt
	r.lastMaxTurns = maxTurns
	if r.err != nil {
		return nil, r.err
	}
	return r.execution, nil
}

type agentFixture struct {
	service *agent.Service
	runner  *fakeRunner
	users   user.Repository
}

func newAgentFixture(t *testing.T) *agentFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	users := userrepo.NewYAMLRepository(store)
	gate := permission.NewService(users, permissionrepo.NewYAMLRepository(store), auditrepo.NewYAMLRepository(store))
	runner := &fakeRunner{execution: &agent.Execution{SessionID: "sess-1", Output: "done"}}
	return &agentFixture{
		service: agent.NewService(agentrepo.NewYAMLRepository(store), gate, runner),
		runner:  runner,
		users:   users,
	}
}

func (f *agentFixture) seedUser(t *testing.T, id string, role user.SystemRole) {
	t.Helper()
	now := time.Now()
	err := f.users.Create(context.Background(), &user.User{
		ID: id, Email: id + "@example.com", DisplayName: id, SystemRole: role,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}

func TestExecuteRunsAgentPrompt(t *testing.T) {
	f := newAgentFixture(t)
	ctx := context.Background()
	f.seedUser(t, "admin", user.SystemRoleAdmin)

	a, err := f.service.Create(ctx, "admin", agent.CreateInput{
		ProjectID: "p1",
		Name:      "planner",
		Prompt:    "You plan sprints.",
		MaxTurns:  3,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exec, err := f.service.Execute(ctx, "admin", a.ID, "plan the next sprint")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if exec.AgentID != a.ID {
		t.Errorf("execution agent = %s, want %s", exec.AgentID, a.ID)
	}
	if exec.Output != "done" {
		t.Errorf("output = %q, want done", exec.Output)
	}
	if f.runner.lastSystemPrompt != "You plan sprints." {
		t.Errorf("system prompt = %q", f.runner.lastSystemPrompt)
	}
	if f.runner.lastPrompt != "plan the next sprint" {
		t.Errorf("prompt = %q", f.runner.lastPrompt)
	}
	if f.runner.lastMaxTurns != 3 {
		t.Errorf("max turns = %d, want 3", f.runner.lastMaxTurns)
	}
}

func TestExecuteRequiresInput(t *testing.T) {
	f := newAgentFixture(t)
	ctx := context.Background()
	f.seedUser(t, "admin", user.SystemRoleAdmin)

	a, err := f.service.Create(ctx, "admin", agent.CreateInput{ProjectID: "p1", Name: "planner", Prompt: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.service.Execute(ctx, "admin", a.ID, ""); !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}
}

func TestExecuteRequiresPermission(t *testing.T) {
	f := newAgentFixture(t)
	ctx := context.Background()
	f.seedUser(t, "admin", user.SystemRoleAdmin)
	f.seedUser(t, "gus", user.SystemRoleGuest)

	a, err := f.service.Create(ctx, "admin", agent.CreateInput{ProjectID: "p1", Name: "planner", Prompt: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.service.Execute(ctx, "gus", a.ID, "hi"); !cerr.IsCode(err, cerr.PermissionDenied) {
		t.Fatalf("got %v, want PermissionDenied", err)
	}
}

func TestExecuteWrapsRunnerError(t *testing.T) {
	f := newAgentFixture(t)
	ctx := context.Background()
	f.seedUser(t, "admin", user.SystemRoleAdmin)
	f.runner.err = errors.New("session spawn failed")

	a, err := f.service.Create(ctx, "admin", agent.CreateInput{ProjectID: "p1", Name: "planner", Prompt: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.service.Execute(ctx, "admin", a.ID, "hi"); !cerr.IsCode(err, cerr.Internal) {
		t.Fatalf("got %v, want Internal", err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newAgentFixture(t)
	f.seedUser(t, "admin", user.SystemRoleAdmin)
	ctx := context.Background()

	if _, err := f.service.Create(ctx, "admin", agent.CreateInput{ProjectID: "p1", Prompt: "x"}); !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("missing name: got %v, want InvalidArgument", err)
	}
	if _, err := f.service.Create(ctx, "admin", agent.CreateInput{ProjectID: "p1", Name: "planner"}); !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("missing prompt: got %v, want InvalidArgument", err)
	}
}

func TestDeleteRemovesAgent(t *testing.T) {
	f := newAgentFixture(t)
	ctx := context.Background()
	f.seedUser(t, "admin", user.SystemRoleAdmin)

	a, err := f.service.Create(ctx, "admin", agent.CreateInput{ProjectID: "p1", Name: "planner", Prompt: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := f.service.Delete(ctx, "admin", a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.service.Get(ctx, "admin", a.ID); !cerr.IsCode(err, cerr.NotFound) {
		t.Fatalf("Get after delete: got %v, want NotFound", err)
	}
}
