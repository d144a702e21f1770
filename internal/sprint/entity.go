package sprint

import "time"

type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusCompleted:
		return true
	}
	return false
}

type Sprint struct {
	ID        string    `yaml:"id" json:"id"`
	ProjectID string    `yaml:"project_id" json:"project_id"`
	Name      string    `yaml:"name" json:"name"`
	Goal      string    `yaml:"goal,omitempty" json:"goal,omitempty"`
	StartDate time.Time `yaml:"start_date" json:"start_date"`
	EndDate   time.Time `yaml:"end_date" json:"end_date"`
	Status    Status    `yaml:"status" json:"status"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}
