package audit

import "time"

// Entry is an immutable record of a privileged action. Entries are only
// ever appended; retention is up to the storage backend.
type Entry struct {
	ID           string            `yaml:"id" json:"id"`
	ActorID      string            `yaml:"actor_id" json:"actor_id"`
	Action       string            `yaml:"action" json:"action"` // RESOURCE_VERB convention, e.g. PROJECT_DELETE
	ResourceType string            `yaml:"resource_type" json:"resource_type"`
	ResourceID   string            `yaml:"resource_id" json:"resource_id"`
	Details      map[string]string `yaml:"details,omitempty" json:"details,omitempty"`
	CreatedAt    time.Time         `yaml:"created_at" json:"created_at"`
}
