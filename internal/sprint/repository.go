package sprint

import "context"

type Repository interface {
	Create(ctx context.Context, s *Sprint) error
	Get(ctx context.Context, id string) (*Sprint, error)
	List(ctx context.Context, projectID string, limit, offset int) ([]*Sprint, int, error)
}
