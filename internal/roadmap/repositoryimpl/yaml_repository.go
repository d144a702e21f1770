package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/roadmap"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

const roadmapsPrefix = "roadmaps"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", roadmapsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, rm *roadmap.Roadmap) error {
	exists, err := r.storage.Exists(ctx, path(rm.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("roadmap", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "roadmap already exists", nil)
	}
	data, err := yaml.Marshal(rm)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal roadmap: %w", err))
	}
	if err := r.storage.Write(ctx, path(rm.ID), data); err != nil {
		return cerr.WrapStorageWriteError("roadmap", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*roadmap.Roadmap, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("roadmap", err)
	}
	var rm roadmap.Roadmap
	if err := yaml.Unmarshal(data, &rm); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal roadmap: %w", err))
	}
	return &rm, nil
}

func (r *YAMLRepository) List(ctx context.Context, projectID string, limit, offset int) ([]*roadmap.Roadmap, int, error) {
	paths, err := r.storage.List(ctx, roadmapsPrefix)
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("roadmaps", err)
	}
	sort.Strings(paths)

	var all []*roadmap.Roadmap
	for _, pth := range paths {
		data, err := r.storage.Read(ctx, pth)
		if err != nil {
			continue
		}
		var rm roadmap.Roadmap
		if err := yaml.Unmarshal(data, &rm); err != nil {
			continue
		}
		if projectID != "" && rm.ProjectID != projectID {
			continue
		}
		all = append(all, &rm)
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
