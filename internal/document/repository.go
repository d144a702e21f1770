package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, projectID string, limit, offset int) ([]*Document, int, error)
	Update(ctx context.Context, d *Document) error
}
