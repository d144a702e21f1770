package audit

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// List returns entries filtered by actor and/or resource type. Empty
	// filters match everything. Entries come back in append (ID) order.
	List(ctx context.Context, actorID, resourceType string, limit, offset int) ([]*Entry, int, error)
}
