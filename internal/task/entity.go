package task

import "time"

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          string     `yaml:"id" json:"id"`
	ProjectID   string     `yaml:"project_id" json:"project_id"`
	SprintID    string     `yaml:"sprint_id,omitempty" json:"sprint_id,omitempty"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Status      Status     `yaml:"status" json:"status"`
	Priority    Priority   `yaml:"priority" json:"priority"`
	AssigneeID  string     `yaml:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `yaml:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `yaml:"deleted_at,omitempty" json:"-"`
}

func (t *Task) Deleted() bool {
	return t.DeletedAt != nil
}
