package agent

import (
	"context"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/pkg/cerr"
)

type Service struct {
	repo   Repository
	gate   *permission.Service
	runner Runner
}

func NewService(repo Repository, gate *permission.Service, runner Runner) *Service {
	return &Service{repo: repo, gate: gate, runner: runner}
}

func (s *Service) List(ctx context.Context, callerID, projectID string, limit, offset int) ([]*Agent, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, projectID, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Agent, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, a.ProjectID); err != nil {
		return nil, err
	}
	return a, nil
}

type CreateInput struct {
	ProjectID   string
	Name        string
	Description string
	Prompt      string
	Model       string
	MaxTurns    int
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (*Agent, error) {
	if in.Name == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "agent name is required", nil)
	}
	if in.Prompt == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "agent prompt is required", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.AgentCreate, in.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	a := &Agent{
		ID:          ulid.Make().String(),
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		Description: in.Description,
		Prompt:      in.Prompt,
		Model:       in.Model,
		MaxTurns:    in.MaxTurns,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "AGENT_CREATE", "agent", a.ID, map[string]string{"name": a.Name, "project_id": a.ProjectID})
	return a, nil
}

type UpdateInput struct {
	Name        string
	Description string
	Prompt      string
	Model       string
	MaxTurns    int
}

func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (*Agent, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.AgentUpdate, a.ProjectID); err != nil {
		return nil, err
	}

	if in.Name != "" {
		a.Name = in.Name
	}
	if in.Description != "" {
		a.Description = in.Description
	}
	if in.Prompt != "" {
		a.Prompt = in.Prompt
	}
	if in.Model != "" {
		a.Model = in.Model
	}
	if in.MaxTurns > 0 {
		a.MaxTurns = in.MaxTurns
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "AGENT_UPDATE", "agent", a.ID, map[string]string{"name": a.Name})
	return a, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Require(ctx, callerID, permission.AgentDelete, a.ProjectID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.gate.Audit(ctx, callerID, "AGENT_DELETE", "agent", a.ID, map[string]string{"name": a.Name})
	return nil
}

func (s *Service) Execute(ctx context.Context, callerID, id, input string) (*Execution, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.AgentExecute, a.ProjectID); err != nil {
		return nil, err
	}
	if input == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "input is required", nil)
	}

	exec, err := s.runner.Run(ctx, a.Prompt, input, a.Model, a.MaxTurns)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "agent execution failed", err)
	}
	exec.AgentID = a.ID
	s.gate.Audit(ctx, callerID, "AGENT_EXECUTE", "agent", a.ID, map[string]string{
		"name":     a.Name,
		"is_error": strconv.FormatBool(exec.IsError),
	})
	return exec, nil
}
