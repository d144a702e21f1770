package team

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/pkg/cerr"
)

type Service struct {
	repo Repository
	gate *permission.Service
}

func NewService(repo Repository, gate *permission.Service) *Service {
	return &Service{repo: repo, gate: gate}
}

func (s *Service) List(ctx context.Context, callerID, projectID string, limit, offset int) ([]*Team, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.TeamRead, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, projectID, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Team, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.TeamRead, t.ProjectID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, callerID, projectID, name, description, leadID string, memberIDs []string) (*Team, error) {
	if name == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "team name is required", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.TeamCreate, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Team{
		ID:          ulid.Make().String(),
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		LeadID:      leadID,
		MemberIDs:   memberIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "TEAM_CREATE", "team", t.ID, map[string]string{"name": t.Name, "project_id": t.ProjectID})
	return t, nil
}
