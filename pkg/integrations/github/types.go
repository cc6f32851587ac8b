package github

import "time"

// Repository is one entry of the public repository listing
// (GET /users/{username}/repos). It is read-only to folio.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Homepage    *string   `json:"homepage"`
	Language    *string   `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Fork        bool      `json:"fork"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasHomepage reports whether the repository advertises a live site.
// GitHub returns "" as well as null for repositories without one; any other
// value, whitespace included, counts.
func (r Repository) HasHomepage() bool {
	return r.Homepage != nil && *r.Homepage != ""
}

// DescriptionText returns the description or "" when absent.
func (r Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// LanguageName returns the primary language or "" when GitHub detected none.
func (r Repository) LanguageName() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}
