package portfolio

import "slices"

// Project categories.
const (
	CategoryCybersecurity = "cybersecurity"
	CategoryDevelopment   = "development"
	CategoryEnterprise    = "enterprise"
	CategoryFullStack     = "full-stack"
)

// Metric is one labelled figure shown on a project card.
type Metric struct {
	Label string `json:"label" toml:"label" yaml:"label"`
	Value string `json:"value" toml:"value" yaml:"value"`
}

// ProjectRecord is a project as displayed. LiveURL and SourceURL are nil
// when the project has no such link.
type ProjectRecord struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description"`
	LiveURL     *string  `json:"liveUrl"`
	SourceURL   *string  `json:"githubUrl"`
	TechStack   []string `json:"techStack"`
	Category    string   `json:"category"`
	Metrics     []Metric `json:"metrics"`
	Highlight   string   `json:"highlight,omitempty"`
}

// Metric returns the value for label and whether it exists.
func (p ProjectRecord) Metric(label string) (string, bool) {
	for _, m := range p.Metrics {
		if m.Label == label {
			return m.Value, true
		}
	}
	return "", false
}

// Clone returns a deep copy of p.
func (p ProjectRecord) Clone() ProjectRecord {
	p.LiveURL = cloneString(p.LiveURL)
	p.SourceURL = cloneString(p.SourceURL)
	p.TechStack = slices.Clone(p.TechStack)
	p.Metrics = slices.Clone(p.Metrics)
	return p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// missing treats an empty link the same as an absent one.
func missing(s *string) bool {
	return s == nil || *s == ""
}
