package knowledge

import "context"

type Repository interface {
	Create(ctx context.Context, a *Artifact) error
	Get(ctx context.Context, kind Kind, id string) (*Artifact, error)
	List(ctx context.Context, kind Kind, projectID string, limit, offset int) ([]*Artifact, int, error)
}
