package document

import "time"

type Document struct {
	ID        string     `yaml:"id" json:"id"`
	ProjectID string     `yaml:"project_id" json:"project_id"`
	Title     string     `yaml:"title" json:"title"`
	Content   string     `yaml:"content" json:"content"`
	Tags      []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	AuthorID  string     `yaml:"author_id" json:"author_id"`
	CreatedAt time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time  `yaml:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `yaml:"deleted_at,omitempty" json:"-"`
}

func (d *Document) Deleted() bool {
	return d.DeletedAt != nil
}
