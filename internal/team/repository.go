package team

import "context"

type Repository interface {
	Create(ctx context.Context, t *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	List(ctx context.Context, projectID string, limit, offset int) ([]*Team, int, error)
	Update(ctx context.Context, t *Team) error
}
