package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/sprint"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

const sprintsPrefix = "sprints"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", sprintsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, sp *sprint.Sprint) error {
	exists, err := r.storage.Exists(ctx, path(sp.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("sprint", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "sprint already exists", nil)
	}
	data, err := yaml.Marshal(sp)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal sprint: %w", err))
	}
	if err := r.storage.Write(ctx, path(sp.ID), data); err != nil {
		return cerr.WrapStorageWriteError("sprint", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*sprint.Sprint, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("sprint", err)
	}
	var sp sprint.Sprint
	if err := yaml.Unmarshal(data, &sp); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal sprint: %w", err))
	}
	return &sp, nil
}

func (r *YAMLRepository) List(ctx context.Context, projectID string, limit, offset int) ([]*sprint.Sprint, int, error) {
	paths, err := r.storage.List(ctx, sprintsPrefix)
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("sprints", err)
	}
	sort.Strings(paths)

	var all []*sprint.Sprint
	for _, pth := range paths {
		data, err := r.storage.Read(ctx, pth)
		if err != nil {
			continue
		}
		var sp sprint.Sprint
		if err := yaml.Unmarshal(data, &sp); err != nil {
			continue
		}
		if projectID != "" && sp.ProjectID != projectID {
			continue
		}
		all = append(all, &sp)
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
