package project

import "context"

// Repository provides persistence for projects. Soft-deleted projects are
// excluded from Get and List.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, limit, offset int) ([]*Project, int, error)
	Update(ctx context.Context, p *Project) error
}
