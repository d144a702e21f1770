package sprint_test

import (
	"context"
	"testing"
	"time"

	auditrepo "github.com/planwise/planwise/internal/audit/repositoryimpl"
	"github.com/planwise/planwise/internal/permission"
	permissionrepo "github.com/planwise/planwise/internal/permission/repositoryimpl"
	"github.com/planwise/planwise/internal/sprint"
	sprintrepo "github.com/planwise/planwise/internal/sprint/repositoryimpl"
	"github.com/planwise/planwise/internal/user"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

func newSprintService(t *testing.T) *sprint.Service {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	users := userrepo.NewYAMLRepository(store)
	now := time.Now()
	err = users.Create(context.Background(), &user.User{
		ID: "admin", Email: "admin@example.com", DisplayName: "admin",
		SystemRole: user.SystemRoleAdmin, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	gate := permission.NewService(users, permissionrepo.NewYAMLRepository(store), auditrepo.NewYAMLRepository(store))
	return sprint.NewService(sprintrepo.NewYAMLRepository(store), gate)
}

func TestCreateSprint(t *testing.T) {
	s := newSprintService(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	sp, err := s.Create(ctx, "admin", "p1", "Sprint 1", "ship auth", start, end)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sp.Status != sprint.StatusPlanned {
		t.Errorf("new sprint status = %s, want PLANNED", sp.Status)
	}

	got, err := s.Get(ctx, "admin", sp.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.StartDate.Equal(start) || !got.EndDate.Equal(end) {
		t.Errorf("dates %v..%v, want %v..%v", got.StartDate, got.EndDate, start, end)
	}
}

func TestCreateSprintRejectsInvertedDates(t *testing.T) {
	s := newSprintService(t)

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	_, err := s.Create(context.Background(), "admin", "p1", "Sprint 1", "", start, start.AddDate(0, 0, -1))
	if !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}
}

func TestListSprintsByProject(t *testing.T) {
	s := newSprintService(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	for _, projectID := range []string{"p1", "p1", "p2"} {
		if _, err := s.Create(ctx, "admin", projectID, "Sprint", "", start, start.AddDate(0, 0, 14)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	sprints, total, err := s.List(ctx, "admin", "p1", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sprints) != 2 || total != 2 {
		t.Errorf("got %d sprints (total %d), want 2", len(sprints), total)
	}
}
