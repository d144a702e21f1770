package team

import "time"

type Team struct {
	ID          string    `yaml:"id" json:"id"`
	ProjectID   string    `yaml:"project_id" json:"project_id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	LeadID      string    `yaml:"lead_id" json:"lead_id"`
	MemberIDs   []string  `yaml:"member_ids" json:"member_ids"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
}
