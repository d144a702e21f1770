package knowledge

import "time"

// Kind distinguishes the artifact families stored by this package.
type Kind string

const (
	KindRequirement     Kind = "requirement"
	KindArchitecture    Kind = "architecture"
	KindAPIDesign       Kind = "api_design"
	KindMindmap         Kind = "mindmap"
	KindDomainKnowledge Kind = "domain_knowledge"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRequirement, KindArchitecture, KindAPIDesign, KindMindmap, KindDomainKnowledge:
		return true
	}
	return false
}

type Artifact struct {
	ID        string            `yaml:"id" json:"id"`
	ProjectID string            `yaml:"project_id" json:"project_id"`
	Kind      Kind              `yaml:"kind" json:"kind"`
	Title     string            `yaml:"title" json:"title"`
	Content   string            `yaml:"content" json:"content"`
	Metadata  map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	AuthorID  string            `yaml:"author_id" json:"author_id"`
	CreatedAt time.Time         `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time         `yaml:"updated_at" json:"updated_at"`
}
