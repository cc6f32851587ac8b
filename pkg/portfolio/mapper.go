package portfolio

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/josz009/folio/pkg/integrations/github"
)

// NoDescription replaces an absent repository description.
const NoDescription = "No description available"

// Metric labels of a derived record, in display order.
const (
	MetricStars    = "stars"
	MetricForks    = "forks"
	MetricLanguage = "language"
	MetricUpdated  = "updated"
)

var securityKeywords = []string{"security", "threat", "penetration", "vulnerability", "cyber"}

// frameworks is checked in order; the first column is matched against the
// lower-cased name and description.
var frameworks = [][2]string{
	{"react", "React"},
	{"vue", "Vue"},
	{"angular", "Angular"},
	{"node", "Node.js"},
	{"express", "Express"},
	{"firebase", "Firebase"},
	{"typescript", "TypeScript"},
	{"python", "Python"},
	{"django", "Django"},
	{"flask", "Flask"},
}

// MapRepository derives a display record from a remote repository. now is
// the reference time for the "updated" metric.
func MapRepository(repo github.Repository, now time.Time) ProjectRecord {
	desc := repo.DescriptionText()
	if desc == "" {
		desc = NoDescription
	}

	var live *string
	if repo.HasHomepage() {
		live = cloneString(repo.Homepage)
	}
	source := repo.HTMLURL

	lang := repo.LanguageName()
	if lang == "" {
		lang = "Multiple"
	}

	return ProjectRecord{
		Title:       TitleCase(repo.Name),
		Description: desc,
		LiveURL:     live,
		SourceURL:   &source,
		TechStack:   TechStack(repo),
		Category:    Categorize(repo),
		Metrics: []Metric{
			{Label: MetricStars, Value: fmt.Sprintf("%d stars", repo.Stars)},
			{Label: MetricForks, Value: fmt.Sprintf("%d forks", repo.Forks)},
			{Label: MetricLanguage, Value: lang},
			{Label: MetricUpdated, Value: Recency(repo.UpdatedAt, now)},
		},
	}
}

// TitleCase turns a repository slug into a title: hyphens and underscores
// become spaces and every character that starts a word is upper-cased.
// A word starts at an ASCII letter or digit not preceded by one.
func TitleCase(name string) string {
	b := []byte(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	prevWord := false
	for i, c := range b {
		word := isWordByte(c)
		if word && !prevWord && 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		prevWord = word
	}
	return string(b)
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}

// Categorize labels a repository cybersecurity when its name or description
// mentions a security keyword, development otherwise.
func Categorize(repo github.Repository) string {
	name := strings.ToLower(repo.Name)
	desc := strings.ToLower(repo.DescriptionText())
	for _, kw := range securityKeywords {
		if strings.Contains(name, kw) || strings.Contains(desc, kw) {
			return CategoryCybersecurity
		}
	}
	return CategoryDevelopment
}

// TechStack lists the language, detected frameworks and topics of a
// repository without duplicates, in that order.
func TechStack(repo github.Repository) []string {
	var stack []string
	add := func(s string) {
		if s != "" && !slices.Contains(stack, s) {
			stack = append(stack, s)
		}
	}

	add(repo.LanguageName())

	text := strings.ToLower(repo.Name + " " + repo.DescriptionText())
	for _, fw := range frameworks {
		if strings.Contains(text, fw[0]) {
			add(fw[1])
		}
	}

	for _, topic := range repo.Topics {
		add(capitalize(topic))
	}

	if stack == nil {
		stack = []string{}
	}
	return stack
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Recency buckets the distance between t and now. Days are counted as the
// ceiling of the absolute difference, so a timestamp 1 second away counts
// as one day.
func Recency(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))

	switch {
	case days < 7:
		return "This week"
	case days < 30:
		return "This month"
	case days < 90:
		return "Last 3 months"
	case days < 180:
		return "Last 6 months"
	default:
		return "Over 6 months ago"
	}
}
