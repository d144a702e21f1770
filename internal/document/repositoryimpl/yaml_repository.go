package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/document"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

const documentsPrefix = "documents"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", documentsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, d *document.Document) error {
	exists, err := r.storage.Exists(ctx, path(d.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("document", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "document already exists", nil)
	}
	return r.write(ctx, d)
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*document.Document, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("document", err)
	}
	var d document.Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal document: %w", err))
	}
	if d.Deleted() {
		return nil, cerr.NewError(cerr.NotFound, "document not found", nil)
	}
	return &d, nil
}

func (r *YAMLRepository) List(ctx context.Context, projectID string, limit, offset int) ([]*document.Document, int, error) {
	paths, err := r.storage.List(ctx, documentsPrefix)
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("documents", err)
	}
	sort.Strings(paths)

	var all []*document.Document
	for _, pth := range paths {
		data, err := r.storage.Read(ctx, pth)
		if err != nil {
			continue
		}
		var d document.Document
		if err := yaml.Unmarshal(data, &d); err != nil {
			continue
		}
		if d.Deleted() {
			continue
		}
		if projectID != "" && d.ProjectID != projectID {
			continue
		}
		all = append(all, &d)
	}

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *YAMLRepository) Update(ctx context.Context, d *document.Document) error {
	exists, err := r.storage.Exists(ctx, path(d.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("document", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "document not found", nil)
	}
	return r.write(ctx, d)
}

func (r *YAMLRepository) write(ctx context.Context, d *document.Document) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal document: %w", err))
	}
	if err := r.storage.Write(ctx, path(d.ID), data); err != nil {
		return cerr.WrapStorageWriteError("document", err)
	}
	return nil
}
