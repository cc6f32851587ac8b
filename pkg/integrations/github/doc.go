// Package github lists public repositories through the GitHub REST API.
//
// # Overview
//
// Only one endpoint is used: GET /users/{username}/repos, first page of up
// to 100 entries sorted by most recently updated. The raw listing is cached
// through [cache.Cache] under "github:repos:<username>"; filtering and
// ordering are applied after every read, so cached and fresh results rank
// identically.
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	repos, err := client.ListRepositories(ctx, "Josz009", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range repos {
//	    fmt.Println(r.Name, r.Stars)
//	}
//
// # Authentication
//
// A token is optional. Without one the API allows 60 requests per hour per
// client address, which is why listings are cached.
//
// # Ranking
//
// [Rank] drops forks, then orders repositories that publish a homepage ahead
// of those that do not, and within each group by descending star count.
//
// [cache.Cache]: github.com/josz009/folio/pkg/cache.Cache
package github
