package user

import "context"

// Repository provides persistence for user accounts. All read operations
// exclude soft-deleted accounts; Get on a soft-deleted user returns NotFound.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
}
