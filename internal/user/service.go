package user

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/planwise/planwise/pkg/cerr"
)

// Guard is the slice of the permission gate the user service needs.
// Declared here to keep this package free of a dependency on the
// permission package, which itself reads users.
type Guard interface {
	RequireSystemAdmin(ctx context.Context, userID string) error
	Audit(ctx context.Context, actorID, action, resourceType, resourceID string, details map[string]string)
}

type Service struct {
	repo  Repository
	guard Guard
}

func NewService(repo Repository, guard Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// Create registers a new account with the given system role. Only system
// admins may create accounts with a role other than USER.
func (s *Service) Create(ctx context.Context, callerID, email, displayName, password string, role SystemRole) (*User, error) {
	if email == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "email is required", nil)
	}
	if password == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "password is required", nil)
	}
	if role == "" {
		role = SystemRoleUser
	}
	if !role.Valid() {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid system role", nil)
	}
	if role != SystemRoleUser {
		if err := s.guard.RequireSystemAdmin(ctx, callerID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", err)
	}

	now := time.Now()
	u := &User{
		ID:           ulid.Make().String(),
		Email:        email,
		DisplayName:  displayName,
		SystemRole:   role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.guard.Audit(ctx, callerID, "USER_CREATE", "user", u.ID, map[string]string{"email": email, "system_role": string(role)})
	return u, nil
}

// Bootstrap seeds the admin account named by the environment so a fresh
// deployment has someone who can reach the admin-gated surface. If the
// email is already registered the account is promoted instead; an
// existing admin is left untouched.
func (s *Service) Bootstrap(ctx context.Context, email, displayName, password string) (*User, error) {
	if email == "" {
		return nil, nil
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.SystemRole == SystemRoleAdmin {
			return existing, nil
		}
		existing.SystemRole = SystemRoleAdmin
		existing.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.guard.Audit(ctx, existing.ID, "USER_BOOTSTRAP", "user", existing.ID, map[string]string{"email": email})
		return existing, nil
	case !cerr.IsCode(err, cerr.NotFound):
		return nil, err
	}

	if password == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "bootstrap admin password is required", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", err)
	}

	now := time.Now()
	u := &User{
		ID:           ulid.Make().String(),
		Email:        email,
		DisplayName:  displayName,
		SystemRole:   SystemRoleAdmin,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.guard.Audit(ctx, u.ID, "USER_BOOTSTRAP", "user", u.ID, map[string]string{"email": email})
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateSystemRole changes an account's system role. Admin only.
func (s *Service) UpdateSystemRole(ctx context.Context, callerID, userID string, role SystemRole) (*User, error) {
	if !role.Valid() {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid system role", nil)
	}
	if err := s.guard.RequireSystemAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.SystemRole = role
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.guard.Audit(ctx, callerID, "USER_ROLE_UPDATE", "user", u.ID, map[string]string{"system_role": string(role)})
	return u, nil
}

// Delete soft-deletes an account. Admin only.
func (s *Service) Delete(ctx context.Context, callerID, userID string) error {
	if err := s.guard.RequireSystemAdmin(ctx, callerID); err != nil {
		return err
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	now := time.Now()
	u.DeletedAt = &now
	u.UpdatedAt = now
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.guard.Audit(ctx, callerID, "USER_DELETE", "user", u.ID, nil)
	return nil
}

// Authenticate verifies an email/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid credentials", err)
	}
	return u, nil
}
