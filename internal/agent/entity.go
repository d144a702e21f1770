package agent

import "time"

type Agent struct {
	ID          string    `yaml:"id" json:"id"`
	ProjectID   string    `yaml:"project_id" json:"project_id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Prompt      string    `yaml:"prompt" json:"prompt"`
	Model       string    `yaml:"model,omitempty" json:"model,omitempty"`
	MaxTurns    int       `yaml:"max_turns,omitempty" json:"max_turns,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
}

// Execution is the outcome of one agent run.
type Execution struct {
	AgentID   string `yaml:"agent_id" json:"agent_id"`
	SessionID string `yaml:"session_id,omitempty" json:"session_id,omitempty"`
	Output    string `yaml:"output" json:"output"`
	IsError   bool   `yaml:"is_error" json:"is_error"`
}
