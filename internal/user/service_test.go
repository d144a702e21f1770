package user_test

import (
	"context"
	"testing"

	"github.com/planwise/planwise/internal/user"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

// stubGuard treats "root" as the only system admin and records nothing.
type stubGuard struct{}

func (stubGuard) RequireSystemAdmin(_ context.Context, userID string) error {
	if userID == "root" {
		return nil
	}
	return cerr.NewError(cerr.PermissionDenied, "permission denied: system.admin", nil)
}

func (stubGuard) Audit(context.Context, string, string, string, string, map[string]string) {}

func newUserService(t *testing.T) *user.Service {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return user.NewService(userrepo.NewYAMLRepository(store), stubGuard{})
}

func TestCreateDefaultsToUserRole(t *testing.T) {
	s := newUserService(t)

	u, err := s.Create(context.Background(), "", "alice@example.com", "Alice", "hunter22", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.SystemRole != user.SystemRoleUser {
		t.Errorf("role = %s, want USER", u.SystemRole)
	}
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestCreateAdminRequiresAdmin(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", "eve@example.com", "Eve", "pw", user.SystemRoleAdmin); !cerr.IsCode(err, cerr.PermissionDenied) {
		t.Fatalf("got %v, want PermissionDenied", err)
	}

	u, err := s.Create(ctx, "root", "admin@example.com", "Admin", "pw", user.SystemRoleAdmin)
	if err != nil {
		t.Fatalf("Create as root failed: %v", err)
	}
	if u.SystemRole != user.SystemRoleAdmin {
		t.Errorf("role = %s, want ADMIN", u.SystemRole)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		role     user.SystemRole
	}{
		{"missing email", "", "pw", ""},
		{"missing password", "a@example.com", "", ""},
		{"bad role", "a@example.com", "pw", "SUPERVISOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(ctx, "root", tt.email, "A", tt.password, tt.role); !cerr.IsCode(err, cerr.InvalidArgument) {
				t.Fatalf("got %v, want InvalidArgument", err)
			}
		})
	}
}

func TestBootstrapCreatesAdmin(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	u, err := s.Bootstrap(ctx, "ops@example.com", "Ops", "hunter22")
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if u.SystemRole != user.SystemRoleAdmin {
		t.Errorf("role = %s, want ADMIN", u.SystemRole)
	}
	if _, err := s.Authenticate(ctx, "ops@example.com", "hunter22"); err != nil {
		t.Fatalf("Authenticate after bootstrap failed: %v", err)
	}
}

func TestBootstrapPromotesExistingAccount(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "", "ops@example.com", "Ops", "hunter22", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := s.Bootstrap(ctx, "ops@example.com", "Ops", "ignored")
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("got user %s, want existing %s", u.ID, created.ID)
	}
	if u.SystemRole != user.SystemRoleAdmin {
		t.Errorf("role = %s, want ADMIN", u.SystemRole)
	}
	// The original password still works after promotion.
	if _, err := s.Authenticate(ctx, "ops@example.com", "hunter22"); err != nil {
		t.Fatalf("Authenticate after promotion failed: %v", err)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	first, err := s.Bootstrap(ctx, "ops@example.com", "Ops", "hunter22")
	if err != nil {
		t.Fatalf("first Bootstrap failed: %v", err)
	}
	second, err := s.Bootstrap(ctx, "ops@example.com", "Ops", "hunter22")
	if err != nil {
		t.Fatalf("second Bootstrap failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second bootstrap created a new account: %s vs %s", second.ID, first.ID)
	}
}

func TestBootstrapValidation(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	u, err := s.Bootstrap(ctx, "", "Ops", "hunter22")
	if err != nil || u != nil {
		t.Fatalf("empty email must be a no-op, got (%v, %v)", u, err)
	}
	if _, err := s.Bootstrap(ctx, "ops@example.com", "Ops", ""); !cerr.IsCode(err, cerr.InvalidArgument) {
		t.Fatalf("missing password: got %v, want InvalidArgument", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "", "alice@example.com", "Alice", "hunter22", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := s.Authenticate(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("got user %s, want %s", u.ID, created.ID)
	}

	if _, err := s.Authenticate(ctx, "alice@example.com", "wrong"); !cerr.IsCode(err, cerr.Unauthenticated) {
		t.Fatalf("wrong password: got %v, want Unauthenticated", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "hunter22"); !cerr.IsCode(err, cerr.Unauthenticated) {
		t.Fatalf("unknown email: got %v, want Unauthenticated", err)
	}
}

func TestDeleteHidesAccount(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	u, err := s.Create(ctx, "", "alice@example.com", "Alice", "pw", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Delete(ctx, "root", u.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, u.ID); !cerr.IsCode(err, cerr.NotFound) {
		t.Fatalf("Get after delete: got %v, want NotFound", err)
	}
	if _, err := s.Authenticate(ctx, "alice@example.com", "pw"); !cerr.IsCode(err, cerr.Unauthenticated) {
		t.Fatalf("Authenticate after delete: got %v, want Unauthenticated", err)
	}
}
