package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/planwise/planwise/internal/audit"
	auditrepo "github.com/planwise/planwise/internal/audit/repositoryimpl"
	"github.com/planwise/planwise/internal/eventbus"
	"github.com/planwise/planwise/internal/permission"
	permissionrepo "github.com/planwise/planwise/internal/permission/repositoryimpl"
	"github.com/planwise/planwise/internal/project"
	projectrepo "github.com/planwise/planwise/internal/project/repositoryimpl"
	"github.com/planwise/planwise/internal/user"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

type fixture struct {
	service     *project.Service
	memberships permission.MembershipRepository
	auditLog    audit.Repository
	users       user.Repository
	bus         *eventbus.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	users := userrepo.NewYAMLRepository(store)
	memberships := permissionrepo.NewYAMLRepository(store)
	auditLog := auditrepo.NewYAMLRepository(store)
	gate := permission.NewService(users, memberships, auditLog)
	bus := eventbus.New()
	return &fixture{
		service:     project.NewService(projectrepo.NewYAMLRepository(store), memberships, gate, bus),
		memberships: memberships,
		auditLog:    auditLog,
		users:       users,
		bus:         bus,
	}
}

func (f *fixture) seedUser(t *testing.T, id string, role user.SystemRole) {
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

func TestCreateAssignsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", user.SystemRoleUser)

	p, err := f.service.Create(ctx, "alice", "Apollo", "moon landing")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Status != project.StatusActive {
		t.Errorf("new project status = %s, want ACTIVE", p.Status)
	}
	if p.OwnerID != "alice" {
		t.Errorf("owner id = %s, want alice", p.OwnerID)
	}

	m, err := f.memberships.Get(ctx, p.ID, "alice")
	if err != nil {
		t.Fatalf("creator has no membership: %v", err)
	}
	if m.Role != permission.ProjectRoleOwner {
		t.Errorf("creator role = %s, want OWNER", m.Role)
	}

	entries, _, err := f.auditLog.List(ctx, "alice", "project", 0, 0)
	if err != nil {
		t.Fatalf("failed to list audit entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "PROJECT_CREATE" {
		t.Errorf("expected one PROJECT_CREATE entry, got %v", entries)
	}
}

func TestCreateRequiresName(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice", user.SystemRoleUser)

	_, err := f.service.Create(context.Background(), "alice", "", "")
	if !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}
}

func TestCreateDeniedForGuest(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "gus", user.SystemRoleGuest)

	_, err := f.service.Create(context.Background(), "gus", "Apollo", "")
	if !cerr.IsCode(err, cerr.PermissionDenied) {
		t.Fatalf("got %v, want PermissionDenied", err)
	}
}

func TestDeleteHidesProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", user.SystemRoleUser)

	p, err := f.service.Create(ctx, "alice", "Apollo", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := f.service.Delete(ctx, "alice", p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := f.service.Get(ctx, "alice", p.ID); !cerr.IsCode(err, cerr.NotFound) {
		t.Fatalf("Get after delete: got %v, want NotFound", err)
	}
	projects, total, err := f.service.List(ctx, "alice", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 0 || total != 0 {
		t.Errorf("deleted project still listed: %d entries, total %d", len(projects), total)
	}

	entries, _, err := f.auditLog.List(ctx, "alice", "project", 0, 0)
	if err != nil {
		t.Fatalf("failed to list audit entries: %v", err)
	}
	var deleted bool
	for _, e := range entries {
		if e.Action == "PROJECT_DELETE" {
			deleted = true
		}
	}
	if !deleted {
		t.Error("missing PROJECT_DELETE audit entry")
	}
}

func TestDeleteRequiresOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", user.SystemRoleUser)
	f.seedUser(t, "bob", user.SystemRoleUser)

	p, err := f.service.Create(ctx, "alice", "Apollo", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := f.service.Delete(ctx, "bob", p.ID); !cerr.IsCode(err, cerr.PermissionDenied) {
		t.Fatalf("got %v, want PermissionDenied", err)
	}
}

func TestUpdateValidatesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", user.SystemRoleUser)

	p, err := f.service.Create(ctx, "alice", "Apollo", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.service.Update(ctx, "alice", p.ID, "", "", "PAUSED"); !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}

	updated, err := f.service.Update(ctx, "alice", p.ID, "", "", project.StatusArchived)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != project.StatusArchived {
		t.Errorf("status = %s, want ARCHIVED", updated.Status)
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", user.SystemRoleUser)

	id, ch := f.bus.Subscribe(1)
	defer f.bus.Unsubscribe(id)

	p, err := f.service.Create(ctx, "alice", "Apollo", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Type != eventbus.EventTypeProjectCreated {
			t.Errorf("event type = %s, want %s", ev.Type, eventbus.EventTypeProjectCreated)
		}
		if ev.ResourceID != p.ID {
			t.Errorf("event resource = %s, want %s", ev.ResourceID, p.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}
