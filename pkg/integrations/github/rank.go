package github

import "sort"

// Rank drops forks and orders the remainder for display: repositories with a
// homepage first, then by descending star count. The sort is stable, so ties
// keep the order the API returned them in. The input slice is not modified.
func Rank(repos []Repository) []Repository {
	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Fork {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := out[i].HasHomepage(), out[j].HasHomepage()
		if hi != hj {
			return hi
		}
		return out[i].Stars > out[j].Stars
	})
	return out
}
