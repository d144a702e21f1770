package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/knowledge"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

const knowledgePrefix = "knowledge"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

// Artifacts are partitioned by kind so a list never scans other families.
func path(kind knowledge.Kind, id string) string {
	return fmt.Sprintf("%s/%s/%s.yaml", knowledgePrefix, kind, id)
}

func (r *YAMLRepository) Create(ctx context.Context, a *knowledge.Artifact) error {
	exists, err := r.storage.Exists(ctx, path(a.Kind, a.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("artifact", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "artifact already exists", nil)
	}
	data, err := yaml.Marshal(a)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal artifact: %w", err))
	}
	if err := r.storage.Write(ctx, path(a.Kind, a.ID), data); err != nil {
		return cerr.WrapStorageWriteError("artifact", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, kind knowledge.Kind, id string) (*knowledge.Artifact, error) {
	data, err := r.storage.Read(ctx, path(kind, id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("artifact", err)
	}
	var a knowledge.Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal artifact: %w", err))
	}
	return &a, nil
}

func (r *YAMLRepository) List(ctx context.Context, kind knowledge.Kind, projectID string, limit, offset int) ([]*knowledge.Artifact, int, error) {
	paths, err := r.storage.List(ctx, fmt.Sprintf("%s/%s", knowledgePrefix, kind))
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("artifacts", err)
	}
	sort.Strings(paths)

	var all []*knowledge.Artifact
	for _, pth := range paths {
		data, err := r.storage.Read(ctx, pth)
		if err != nil {
			continue
		}
		var a knowledge.Artifact
		if err := yaml.Unmarshal(data, &a); err != nil {
			continue
		}
		if projectID != "" && a.ProjectID != projectID {
			continue
		}
		all = append(all, &a)
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
