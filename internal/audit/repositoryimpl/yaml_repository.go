package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/audit"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

const auditPrefix = "audit"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", auditPrefix, id)
}

func (r *YAMLRepository) Append(ctx context.Context, e *audit.Entry) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal audit entry: %w", err))
	}
	if err := r.storage.Write(ctx, path(e.ID), data); err != nil {
		return cerr.WrapStorageWriteError("audit entry", err)
	}
	return nil
}

func (r *YAMLRepository) List(ctx context.Context, actorID, resourceType string, limit, offset int) ([]*audit.Entry, int, error) {
	paths, err := r.storage.List(ctx, auditPrefix)
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("audit entries", err)
	}
	// ULIDs sort lexicographically in creation order.
	sort.Strings(paths)

	var all []*audit.Entry
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var e audit.Entry
		if err := yaml.Unmarshal(data, &e); err != nil {
			continue
		}
		if actorID != "" && e.ActorID != actorID {
			continue
		}
		if resourceType != "" && e.ResourceType != resourceType {
			continue
		}
		all = append(all, &e)
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
