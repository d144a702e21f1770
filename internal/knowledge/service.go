package knowledge

import (
	"context"
	"strings"
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

func (s *Service) List(ctx context.Context, callerID string, kind Kind, projectID string, limit, offset int) ([]*Artifact, int, error) {
	if !kind.Valid() {
		return nil, 0, cerr.NewError(cerr.InvalidArgument, "invalid artifact kind: "+string(kind), nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationRead, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, kind, projectID, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID string, kind Kind, id string) (*Artifact, error) {
	if !kind.Valid() {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid artifact kind: "+string(kind), nil)
	}
	a, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationRead, a.ProjectID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, callerID string, kind Kind, projectID, title, content string, metadata map[string]string) (*Artifact, error) {
	if !kind.Valid() {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid artifact kind: "+string(kind), nil)
	}
	if title == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "artifact title is required", nil)
	}
	if projectID == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "project id is required", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationCreate, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	a := &Artifact{
		ID:        ulid.Make().String(),
		ProjectID: projectID,
		Kind:      kind,
		Title:     title,
		Content:   content,
		Metadata:  metadata,
		AuthorID:  callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	action := strings.ToUpper(string(kind)) + "_CREATE"
	s.gate.Audit(ctx, callerID, action, string(kind), a.ID, map[string]string{"title": a.Title, "project_id": a.ProjectID})
	return a, nil
}
