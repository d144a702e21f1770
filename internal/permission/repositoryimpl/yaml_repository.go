package repositoryimpl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/storage"
)

const membershipsPrefix = "memberships"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(projectID, userID string) string {
	return fmt.Sprintf("%s/%s/%s.yaml", membershipsPrefix, projectID, userID)
}

func (r *YAMLRepository) Upsert(ctx context.Context, m *permission.Membership) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal membership: %w", err))
	}
	if err := r.storage.Write(ctx, path(m.ProjectID, m.UserID), data); err != nil {
		return cerr.WrapStorageWriteError("membership", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, projectID, userID string) (*permission.Membership, error) {
	data, err := r.storage.Read(ctx, path(projectID, userID))
	if err != nil {
		return nil, cerr.WrapStorageReadError("membership", err)
	}
	var m permission.Membership
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal membership: %w", err))
	}
	return &m, nil
}

func (r *YAMLRepository) ListByProject(ctx context.Context, projectID string) ([]*permission.Membership, error) {
	return r.list(ctx, membershipsPrefix+"/"+projectID, func(*permission.Membership) bool { return true })
}

func (r *YAMLRepository) ListByUser(ctx context.Context, userID string) ([]*permission.Membership, error) {
	return r.list(ctx, membershipsPrefix, func(m *permission.Membership) bool { return m.UserID == userID })
}

func (r *YAMLRepository) Delete(ctx context.Context, projectID, userID string) error {
	if err := r.storage.Delete(ctx, path(projectID, userID)); err != nil {
		return cerr.WrapStorageDeleteError("membership", err)
	}
	return nil
}

func (r *YAMLRepository) list(ctx context.Context, prefix string, keep func(*permission.Membership) bool) ([]*permission.Membership, error) {
	paths, err := r.storage.List(ctx, prefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("memberships", err)
	}
	sort.Strings(paths)

	var all []*permission.Membership
	for _, p := range paths {
		if !strings.HasSuffix(p, ".yaml") {
			continue
		}
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var m permission.Membership
		if err := yaml.Unmarshal(data, &m); err != nil {
			continue
		}
		if keep(&m) {
			all = append(all, &m)
		}
	}
	return all, nil
}
