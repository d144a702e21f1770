package sprint

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

func (s *Service) List(ctx context.Context, callerID, projectID string, limit, offset int) ([]*Sprint, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.TaskRead, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, projectID, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Sprint, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.TaskRead, sp.ProjectID); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *Service) Create(ctx context.Context, callerID, projectID, name, goal string, startDate, endDate time.Time) (*Sprint, error) {
	if name == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "sprint name is required", nil)
	}
	if projectID == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "project id is required", nil)
	}
	if !endDate.IsZero() && !startDate.IsZero() && endDate.Before(startDate) {
		return nil, cerr.NewError(cerr.InvalidArgument, "sprint end date precedes start date", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.TaskCreate, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	sp := &Sprint{
		ID:        ulid.Make().String(),
		ProjectID: projectID,
		Name:      name,
		Goal:      goal,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "SPRINT_CREATE", "sprint", sp.ID, map[string]string{"name": sp.Name, "project_id": sp.ProjectID})
	return sp, nil
}
