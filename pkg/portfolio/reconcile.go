package portfolio

import (
	"regexp"
	"strings"
	"time"

	"github.com/josz009/folio/pkg/integrations/github"
)

var whitespace = regexp.MustCompile(`\s+`)

// Slug is the form a curated title takes when matched against repository
// names: lower case, whitespace runs replaced by a single hyphen.
func Slug(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(title), "-")
}

// Matches reports whether repo corresponds to the curated record p.
// This is a substring heuristic: a short title can match an unrelated
// repository whose name happens to contain it.
func Matches(p ProjectRecord, repo github.Repository) bool {
	if !missing(p.SourceURL) && *p.SourceURL == repo.HTMLURL {
		return true
	}
	return strings.Contains(strings.ToLower(repo.Name), Slug(p.Title))
}

// Reconcile enriches curated records with remote data. The result has the
// same length and order as curated. For each record the first matching
// repository in remote order may fill LiveURL and SourceURL when the record
// leaves them empty; no other field changes. Inputs are not modified.
func Reconcile(curated []ProjectRecord, remote []github.Repository, now time.Time) []ProjectRecord {
	out := make([]ProjectRecord, len(curated))
	for i, p := range curated {
		rec := p.Clone()
		if j := findMatch(p, remote); j >= 0 {
			derived := MapRepository(remote[j], now)
			if missing(rec.SourceURL) && derived.SourceURL != nil {
				rec.SourceURL = derived.SourceURL
			}
			if missing(rec.LiveURL) && derived.LiveURL != nil {
				rec.LiveURL = derived.LiveURL
			}
		}
		out[i] = rec
	}
	return out
}

// Supplementary maps the remote repositories that no curated record matches,
// in remote order, stopping after limit records. limit <= 0 means no limit.
func Supplementary(remote []github.Repository, curated []ProjectRecord, now time.Time, limit int) []ProjectRecord {
	claimed := make(map[int]bool, len(curated))
	for _, p := range curated {
		if j := findMatch(p, remote); j >= 0 {
			claimed[j] = true
		}
	}

	var out []ProjectRecord
	for j, repo := range remote {
		if claimed[j] {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, MapRepository(repo, now))
	}
	return out
}

func findMatch(p ProjectRecord, remote []github.Repository) int {
	for j, repo := range remote {
		if Matches(p, repo) {
			return j
		}
	}
	return -1
}
