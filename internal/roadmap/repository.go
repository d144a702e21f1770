package roadmap

import "context"

type Repository interface {
	Create(ctx context.Context, r *Roadmap) error
	Get(ctx context.Context, id string) (*Roadmap, error)
	List(ctx context.Context, projectID string, limit, offset int) ([]*Roadmap, int, error)
}
