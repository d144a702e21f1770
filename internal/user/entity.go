package user

import "time"

// SystemRole is the account-wide role, independent of any project.
type SystemRole string

const (
	SystemRoleAdmin SystemRole = "ADMIN"
	SystemRoleUser  SystemRole = "USER"
	SystemRoleGuest SystemRole = "GUEST"
)

func (r SystemRole) Valid() bool {
	switch r {
	case SystemRoleAdmin, SystemRoleUser, SystemRoleGuest:
		return true
	}
	return false
}

type User struct {
	ID           string     `yaml:"id" json:"id"`
	Email        string     `yaml:"email" json:"email"`
	DisplayName  string     `yaml:"display_name" json:"display_name"`
	SystemRole   SystemRole `yaml:"system_role" json:"system_role"`
	PasswordHash string     `yaml:"password_hash" json:"-"`
	CreatedAt    time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `yaml:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `yaml:"deleted_at,omitempty" json:"-"`
}

// Deleted reports whether the account is soft-deleted.
func (u *User) Deleted() bool {
	return u.DeletedAt != nil
}
