package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planwise/planwise/internal/eventbus"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/pkg/cerr"
)

type Service struct {
	repo Repository
	gate *permission.Service
	bus  *eventbus.Bus
}

func NewService(repo Repository, gate *permission.Service, bus *eventbus.Bus) *Service {
	return &Service{repo: repo, gate: gate, bus: bus}
}

func (s *Service) List(ctx context.Context, callerID string, filter Filter, limit, offset int) ([]*Task, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.TaskRead, filter.ProjectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.TaskRead, t.ProjectID); err != nil {
		return nil, err
	}
	return t, nil
}

type CreateInput struct {
	ProjectID   string
	SprintID    string
	Title       string
	Description string
	Priority    Priority
	AssigneeID  string
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (*Task, error) {
	if in.Title == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "task title is required", nil)
	}
	if in.ProjectID == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "project id is required", nil)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid priority: "+string(in.Priority), nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.TaskCreate, in.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Task{
		ID:          ulid.Make().String(),
		ProjectID:   in.ProjectID,
		SprintID:    in.SprintID,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusTodo,
		Priority:    in.Priority,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "TASK_CREATE", "task", t.ID, map[string]string{"title": t.Title, "project_id": t.ProjectID})
	s.bus.PublishNew(eventbus.EventTypeTaskCreated, t.ID, t.ProjectID, map[string]string{"title": t.Title})
	return t, nil
}

type UpdateInput struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	AssigneeID  string
	SprintID    string
}

func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.TaskUpdate, t.ProjectID); err != nil {
		return nil, err
	}

	if in.Title != "" {
		t.Title = in.Title
	}
	if in.Description != "" {
		t.Description = in.Description
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, cerr.NewError(cerr.InvalidArgument, "invalid status: "+string(in.Status), nil)
		}
		t.Status = in.Status
	}
	if in.Priority != "" {
		if !in.Priority.Valid() {
			return nil, cerr.NewError(cerr.InvalidArgument, "invalid priority: "+string(in.Priority), nil)
		}
		t.Priority = in.Priority
	}
	if in.AssigneeID != "" {
		t.AssigneeID = in.AssigneeID
	}
	if in.SprintID != "" {
		t.SprintID = in.SprintID
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "TASK_UPDATE", "task", t.ID, map[string]string{"title": t.Title, "status": string(t.Status)})
	s.bus.PublishNew(eventbus.EventTypeTaskUpdated, t.ID, t.ProjectID, map[string]string{"title": t.Title, "status": string(t.Status)})
	return t, nil
}
