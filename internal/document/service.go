package document

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

func (s *Service) List(ctx context.Context, callerID, projectID string, limit, offset int) ([]*Document, int, error) {
	if err := s.gate.Require(ctx, callerID, permission.DocumentationRead, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, projectID, limit, offset)
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*Document, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationRead, d.ProjectID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, callerID, projectID, title, content string, tags []string) (*Document, error) {
	if title == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "document title is required", nil)
	}
	if projectID == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "project id is required", nil)
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationCreate, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	d := &Document{
		ID:        ulid.Make().String(),
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		AuthorID:  callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "DOC_CREATE", "document", d.ID, map[string]string{"title": d.Title, "project_id": d.ProjectID})
	return d, nil
}

func (s *Service) Update(ctx context.Context, callerID, id, title, content string, tags []string) (*Document, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationUpdate, d.ProjectID); err != nil {
		return nil, err
	}

	if title != "" {
		d.Title = title
	}
	if content != "" {
		d.Content = content
	}
	if tags != nil {
		d.Tags = tags
	}
	d.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.gate.Audit(ctx, callerID, "DOC_UPDATE", "document", d.ID, map[string]string{"title": d.Title})
	return d, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Require(ctx, callerID, permission.DocumentationDelete, d.ProjectID); err != nil {
		return err
	}

	now := time.Now()
	d.DeletedAt = &now
	d.UpdatedAt = now
	if err := s.repo.Update(ctx, d); err != nil {
		return err
	}
	s.gate.Audit(ctx, callerID, "DOC_DELETE", "document", d.ID, map[string]string{"title": d.Title})
	return nil
}
