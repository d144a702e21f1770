package project

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planwise/planwise/internal/eventbus"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/pkg/cerr"
)

type Service struct {
	repo        Repository
	memberships permission.MembershipRepository
	gate        *permission.Service
	bus         *eventbus.Bus
}

func NewService(repo Repository, memberships permission.MembershipRepository, gate *permission.Service, bus *eventbus.Bus) *Service {
	return &Service{
		repo:        repo,
		memberships: memberships,
		gate:        gate,
		bus:         bus,
	}
}

func (s *Service) List(ctx context.Context, callerID string, limit, offset int) ([]*Project, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, ""); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Project, error) {
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create creates a project and assigns the creator the OWNER role in it.
func (s *Service) Create(ctx context.Context, callerID, name, description string) (*Project, error) {
	if name == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "project name is required", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.ProjectCreate, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Project{
		ID:          ulid.Make().String(),
		Name:        name,
		Description: description,
		Status:      StatusActive,
		OwnerID:     callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.memberships.Upsert(ctx, &permission.Membership{
		ProjectID: p.ID,
		UserID:    callerID,
		Role:      permission.ProjectRoleOwner,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}

	s.gate.Audit(ctx, callerID, "PROJECT_CREATE", "project", p.ID, map[string]string{"name": p.Name})
	s.bus.PublishNew(eventbus.EventTypeProjectCreated, p.ID, p.ID, map[string]string{"name": p.Name})
	return p, nil
}

func (s *Service) Update(ctx context.Context, callerID, id, name, description string, status Status) (*Project, error) {
	if err := s.gate.Require(ctx, callerID, permission.ProjectUpdate, id); err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	if status != "" {
		if status != StatusActive && status != StatusArchived {
			return nil, cerr.NewError(cerr.InvalidArgument, "invalid project status", nil)
		}
		p.Status = status
	}
	p.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "PROJECT_UPDATE", "project", p.ID, map[string]string{"name": p.Name})
	return p, nil
}

// Delete soft-deletes a project. The membership records stay; a deleted
// project no longer resolves, so they grant nothing.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if err := s.gate.Require(ctx, callerID, permission.ProjectDelete, id); err != nil {
		return err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	p.DeletedAt = &now
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.gate.Audit(ctx, callerID, "PROJECT_DELETE", "project", p.ID, map[string]string{"name": p.Name})
	s.bus.PublishNew(eventbus.EventTypeProjectDeleted, p.ID, p.ID, nil)
	return nil
}
