package project

import "time"

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

type Project struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Status      Status     `yaml:"status" json:"status"`
	OwnerID     string     `yaml:"owner_id" json:"owner_id"`
	CreatedAt   time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `yaml:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `yaml:"deleted_at,omitempty" json:"-"`
}
