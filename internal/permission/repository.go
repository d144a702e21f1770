package permission

import "context"

// MembershipRepository provides persistence for project memberships.
type MembershipRepository interface {
	// Upsert creates or replaces the membership for (projectID, userID).
	Upsert(ctx context.Context, m *Membership) error
	// Get returns NotFound when the user has no membership in the project.
	Get(ctx context.Context, projectID, userID string) (*Membership, error)
	ListByProject(ctx context.Context, projectID string) ([]*Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
	Delete(ctx context.Context, projectID, userID string) error
}
