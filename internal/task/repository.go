package task

import "context"

// Filter narrows List results. Zero values mean no filtering on that field.
type Filter struct {
	ProjectID  string
	SprintID   string
	Status     Status
	AssigneeID string
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Task, int, error)
	Update(ctx context.Context, t *Task) error
}
