package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/josz009/folio/pkg/errors"
	"github.com/josz009/folio/pkg/portfolio"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Profile is the portfolio owner's contact and positioning information.
type Profile struct {
	Name       string  `toml:"name" yaml:"name" json:"name"`
	Title      string  `toml:"title" yaml:"title" json:"title"`
	Headline   string  `toml:"headline" yaml:"headline" json:"headline"`
	Tagline    string  `toml:"tagline" yaml:"tagline" json:"tagline"`
	Location   string  `toml:"location" yaml:"location" json:"location"`
	Email      string  `toml:"email" yaml:"email" json:"email"`
	Phone      string  `toml:"phone" yaml:"phone" json:"phone"`
	LinkedIn   string  `toml:"linkedin" yaml:"linkedin" json:"linkedin"`
	GitHub     string  `toml:"github" yaml:"github" json:"github"`
	GitHubUser string  `toml:"github_user" yaml:"github_user" json:"githubUser"`
	Resume     string  `toml:"resume" yaml:"resume" json:"resume"`
	Summary    Summary `toml:"summary" yaml:"summary" json:"summary"`
}

// Summary is the professional summary block of the profile.
type Summary struct {
	Years         string   `toml:"years" yaml:"years" json:"years"`
	PrimaryRole   string   `toml:"primary_role" yaml:"primary_role" json:"primaryRole"`
	Expertise     []string `toml:"expertise" yaml:"expertise" json:"expertise"`
	Education     string   `toml:"education" yaml:"education" json:"education"`
	Certification string   `toml:"certification" yaml:"certification" json:"certification"`
	Pursuing      string   `toml:"pursuing" yaml:"pursuing" json:"pursuing"`
	Achievements  []string `toml:"achievements" yaml:"achievements" json:"achievements"`
}

// Project is a hand-written featured project.
type Project struct {
	Title            string             `toml:"title" yaml:"title" json:"title"`
	Subtitle         string             `toml:"subtitle" yaml:"subtitle" json:"subtitle"`
	Description      string             `toml:"description" yaml:"description" json:"description"`
	LiveURL          string             `toml:"live_url" yaml:"live_url" json:"liveUrl,omitempty"`
	GitHubURL        string             `toml:"github_url" yaml:"github_url" json:"githubUrl,omitempty"`
	TechStack        []string           `toml:"tech_stack" yaml:"tech_stack" json:"techStack"`
	SecurityFeatures []string           `toml:"security_features" yaml:"security_features" json:"securityFeatures"`
	Category         string             `toml:"category" yaml:"category" json:"category"`
	Highlight        string             `toml:"highlight" yaml:"highlight" json:"highlight"`
	Metrics          []portfolio.Metric `toml:"metrics" yaml:"metrics" json:"metrics"`
}

// Additional is a smaller project listed below the featured ones.
type Additional struct {
	Title        string   `toml:"title" yaml:"title" json:"title"`
	Description  string   `toml:"description" yaml:"description" json:"description"`
	LiveURL      string   `toml:"live_url" yaml:"live_url" json:"liveUrl,omitempty"`
	Category     string   `toml:"category" yaml:"category" json:"category"`
	SecurityNote string   `toml:"security_note" yaml:"security_note" json:"securityNote,omitempty"`
	Features     []string `toml:"features" yaml:"features" json:"features,omitempty"`
}

// Skill is a named skill with an optional proficiency level (0-100).
type Skill struct {
	Name  string `toml:"name" yaml:"name" json:"name"`
	Level int    `toml:"level" yaml:"level" json:"level,omitempty"`
}

// SkillTier groups skills of similar proficiency.
type SkillTier struct {
	Title       string  `toml:"title" yaml:"title" json:"title"`
	Description string  `toml:"description" yaml:"description" json:"description"`
	Skills      []Skill `toml:"skills" yaml:"skills" json:"skills"`
}

// Role is one entry of the career timeline.
type Role struct {
	Period     string   `toml:"period" yaml:"period" json:"period"`
	Role       string   `toml:"role" yaml:"role" json:"role"`
	Company    string   `toml:"company" yaml:"company" json:"company"`
	Highlights []string `toml:"highlights" yaml:"highlights" json:"highlights"`
	Impact     string   `toml:"impact" yaml:"impact" json:"impact"`
}

// SecurityMetrics are the headline figures of the security section.
type SecurityMetrics struct {
	Experience    string `toml:"experience" yaml:"experience" json:"experience"`
	Education     string `toml:"education" yaml:"education" json:"education"`
	Certification string `toml:"certification" yaml:"certification" json:"certification"`
	Projects      string `toml:"projects" yaml:"projects" json:"projects"`
	Learning      string `toml:"learning" yaml:"learning" json:"learning"`
	Target        string `toml:"target" yaml:"target" json:"target"`
}

// TerminalProject is a line of the terminal's project listing.
type TerminalProject struct {
	Name  string `toml:"name" yaml:"name" json:"name"`
	Focus string `toml:"focus" yaml:"focus" json:"focus"`
}

// SkillGroup is a line of the terminal's skill listing.
type SkillGroup struct {
	Group string   `toml:"group" yaml:"group" json:"group"`
	Items []string `toml:"items" yaml:"items" json:"items"`
}

// Terminal is the condensed content the interactive terminal prints.
type Terminal struct {
	Projects []TerminalProject `toml:"projects" yaml:"projects" json:"projects"`
	Skills   []SkillGroup      `toml:"skills" yaml:"skills" json:"skills"`
}

// Catalog is the full curated content set.
type Catalog struct {
	Profile         Profile         `toml:"profile" yaml:"profile" json:"profile"`
	Featured        []Project       `toml:"featured" yaml:"featured" json:"featured"`
	Additional      []Additional    `toml:"additional" yaml:"additional" json:"additional"`
	Skills          []SkillTier     `toml:"skills" yaml:"skills" json:"skills"`
	Career          []Role          `toml:"career" yaml:"career" json:"career"`
	SecurityMetrics SecurityMetrics `toml:"security_metrics" yaml:"security_metrics" json:"securityMetrics"`
	Terminal        Terminal        `toml:"terminal" yaml:"terminal" json:"terminal"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It is parsed on first use; callers
// must not modify the result.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = ParseTOML(defaultCatalog)
	})
	return defaultCat, defaultErr
}

// MustDefault is like [Default] but panics if the embedded catalog is
// invalid, which can only happen with a broken build.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and validates a catalog file. The format is chosen by
// extension: .toml, .yaml or .yml.
func Load(path string) (*Catalog, error) {
	ext, err := errors.ValidateCatalogPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read catalog %s", path)
	}
	if ext == ".toml" {
		return ParseTOML(data)
	}
	return ParseYAML(data)
}

// ParseTOML decodes and validates a TOML catalog. Unknown keys are rejected.
func ParseTOML(data []byte) (*Catalog, error) {
	var c Catalog
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown catalog keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseYAML decodes and validates a YAML catalog. Unknown keys are rejected.
func ParseYAML(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields the rest of folio depends on: every featured
// project needs a title and description, titles must be unique, and metric
// labels must be non-empty.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Featured))
	for i, p := range c.Featured {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			return errors.New(errors.ErrCodeInvalidInput, "featured project %d: title is required", i+1)
		}
		if strings.TrimSpace(p.Description) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "featured project %q: description is required", title)
		}
		key := strings.ToLower(title)
		if seen[key] {
			return errors.New(errors.ErrCodeInvalidInput, "featured project %q: duplicate title", title)
		}
		seen[key] = true
		for _, m := range p.Metrics {
			if strings.TrimSpace(m.Label) == "" {
				return errors.New(errors.ErrCodeInvalidInput, "featured project %q: metric label is required", title)
			}
		}
	}
	if c.Profile.GitHubUser != "" {
		if err := errors.ValidateUsername(c.Profile.GitHubUser); err != nil {
			return fmt.Errorf("profile.github_user: %w", err)
		}
	}
	return nil
}

// Curated converts the featured projects to records ready for
// reconciliation. Empty links become nil.
func (c *Catalog) Curated() []portfolio.ProjectRecord {
	out := make([]portfolio.ProjectRecord, len(c.Featured))
	for i, p := range c.Featured {
		out[i] = portfolio.ProjectRecord{
			Title:       p.Title,
			Subtitle:    p.Subtitle,
			Description: p.Description,
			LiveURL:     optional(p.LiveURL),
			SourceURL:   optional(p.GitHubURL),
			TechStack:   append([]string(nil), p.TechStack...),
			Category:    p.Category,
			Metrics:     append([]portfolio.Metric(nil), p.Metrics...),
			Highlight:   p.Highlight,
		}
	}
	return out
}

// Project looks up a featured project by case-insensitive title.
func (c *Catalog) Project(title string) (Project, bool) {
	for _, p := range c.Featured {
		if strings.EqualFold(p.Title, title) {
			return p, true
		}
	}
	return Project{}, false
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
