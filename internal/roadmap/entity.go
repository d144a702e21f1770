package roadmap

import "time"

type MilestoneStatus string

const (
	MilestoneStatusPlanned    MilestoneStatus = "PLANNED"
	MilestoneStatusInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneStatusDone       MilestoneStatus = "DONE"
)

type Milestone struct {
	Title   string          `yaml:"title" json:"title"`
	DueDate time.Time       `yaml:"due_date" json:"due_date"`
	Status  MilestoneStatus `yaml:"status" json:"status"`
}

type Roadmap struct {
	ID          string      `yaml:"id" json:"id"`
	ProjectID   string      `yaml:"project_id" json:"project_id"`
	Title       string      `yaml:"title" json:"title"`
	TimeHorizon string      `yaml:"time_horizon,omitempty" json:"time_horizon,omitempty"`
	Milestones  []Milestone `yaml:"milestones,omitempty" json:"milestones,omitempty"`
	CreatedAt   time.Time   `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `yaml:"updated_at" json:"updated_at"`
}
