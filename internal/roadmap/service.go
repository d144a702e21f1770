package roadmap

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

func (s *Service) List(ctx context.Context, callerID, projectID string, limit, offset int) ([]*Roadmap, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, projectID, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Roadmap, error) {
	rm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, rm.ProjectID); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *Service) Create(ctx context.Context, callerID, projectID, title, timeHorizon string, milestones []Milestone) (*Roadmap, error) {
	if title == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "roadmap title is required", nil)
	}
	if projectID == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "project id is required", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.ProjectUpdate, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	rm := &Roadmap{
		ID:          ulid.Make().String(),
		ProjectID:   projectID,
		Title:       title,
		TimeHorizon: timeHorizon,
		Milestones:  milestones,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, rm); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "ROADMAP_CREATE", "roadmap", rm.ID, map[string]string{"title": rm.Title, "project_id": rm.ProjectID})
	return rm, nil
}
