package permission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planwise/planwise/internal/audit"
	"github.com/planwise/planwise/internal/user"
	"github.com/planwise/planwise/pkg/cerr"
)

// Service is the permission enforcement gate. It is stateless: every check
// reads the current role assignments, so a role change takes effect on the
// next call. The only side effect is the audit-log append.
type Service struct {
	users       user.Repository
	memberships MembershipRepository
	auditLog    audit.Repository
}

func NewService(users user.Repository, memberships MembershipRepository, auditLog audit.Repository) *Service {
	return &Service{
		users:       users,
		memberships: memberships,
		auditLog:    auditLog,
	}
}

// EffectivePermissions computes the permission set for a user, optionally
// scoped to a project. The result is the union of the user's system-role
// permissions and, when projectID is non-empty and a membership exists,
// the project-role permissions for that project. A missing membership is
// not an error: the user keeps whatever the system role grants.
func (s *Service) EffectivePermissions(ctx context.Context, userID, projectID string) (Set, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms := SystemRolePermissions(u.SystemRole)
	if projectID == "" {
		return perms, nil
	}

	m, err := s.memberships.Get(ctx, projectID, userID)
	if err != nil {
		if cerr.IsCode(err, cerr.NotFound) {
			return perms, nil
		}
		return nil, err
	}
	perms.Merge(ProjectRolePermissions(m.Role))
	return perms, nil
}

// Check reports whether the user holds the permission. A plain deny is
// (false, nil); only lookup failures produce an error.
func (s *Service) Check(ctx context.Context, userID string, p Permission, projectID string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, userID, projectID)
	if err != nil {
		return false, err
	}
	return perms.Has(p), nil
}

// Require succeeds exactly when Check returns true, and otherwise fails
// with PermissionDenied (or the lookup error). Every mutating or
// sensitive-read service operation calls this before touching storage.
func (s *Service) Require(ctx context.Context, userID string, p Permission, projectID string) error {
	ok, err := s.Check(ctx, userID, p, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return cerr.NewError(cerr.PermissionDenied, fmt.Sprintf("permission denied: %s", p), nil)
	}
	return nil
}

// RequireSystemAdmin is a convenience gate for account administration.
func (s *Service) RequireSystemAdmin(ctx context.Context, userID string) error {
	return s.Require(ctx, userID, SystemAdmin, "")
}

// Audit appends an audit-log entry for a privileged action. Appends are
// fail-open: a storage failure logs a warning and never fails the gated
// operation.
func (s *Service) Audit(ctx context.Context, actorID, action, resourceType, resourceID string, details map[string]string) {
	entry := &audit.Entry{
		ID:           ulid.Make().String(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now(),
	}
	if err := s.auditLog.Append(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to append audit entry",
			"action", action, "resource_type", resourceType, "resource_id", resourceID, "error", err)
	}
}

// AssignProjectRole sets the target user's role in a project. Requires
// project.manage_members in that project.
func (s *Service) AssignProjectRole(ctx context.Context, callerID, projectID, userID string, role ProjectRole) (*Membership, error) {
	if !role.Valid() {
		return nil, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid project role: %s", role), nil)
	}
	if err := s.Require(ctx, callerID, ProjectManageMembers, projectID); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	m := &Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.memberships.Get(ctx, projectID, userID); err == nil {
		m.CreatedAt = existing.CreatedAt
	}
	if err := s.memberships.Upsert(ctx, m); err != nil {
		return nil, err
	}
	s.Audit(ctx, callerID, "PROJECT_ROLE_ASSIGN", "project", projectID, map[string]string{
		"user_id": userID,
		"role":    string(role),
	})
	return m, nil
}

// RemoveMember deletes the target user's membership. Requires
// project.manage_members in that project.
func (s *Service) RemoveMember(ctx context.Context, callerID, projectID, userID string) error {
	if err := s.Require(ctx, callerID, ProjectManageMembers, projectID); err != nil {
		return err
	}
	if err := s.memberships.Delete(ctx, projectID, userID); err != nil {
		return err
	}
	s.Audit(ctx, callerID, "PROJECT_MEMBER_REMOVE", "project", projectID, map[string]string{"user_id": userID})
	return nil
}

// ListMembers returns the project's memberships. Requires project.read.
func (s *Service) ListMembers(ctx context.Context, callerID, projectID string) ([]*Membership, error) {
	if err := s.Require(ctx, callerID, ProjectRead, projectID); err != nil {
		return nil, err
	}
	return s.memberships.ListByProject(ctx, projectID)
}
