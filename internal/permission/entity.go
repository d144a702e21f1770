package permission

import "time"

// Membership records the role a user holds in one project. A user holds at
// most one role per project; roles in different projects are independent.
type Membership struct {
	ProjectID string      `yaml:"project_id" json:"project_id"`
	UserID    string      `yaml:"user_id" json:"user_id"`
	Role      ProjectRole `yaml:"role" json:"role"`
	CreatedAt time.Time   `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time   `yaml:"updated_at" json:"updated_at"`
}
