package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josz009/folio/pkg/buildinfo"
	"github.com/josz009/folio/pkg/cache"
	ferrors "github.com/josz009/folio/pkg/errors"
	"github.com/josz009/folio/pkg/httputil"
	"github.com/josz009/folio/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// pageSize is the largest page GitHub serves; only the first page is read.
const pageSize = 100

// Options configures a [Client].
type Options struct {
	BaseURL  string        // defaults to DefaultBaseURL
	Token    string        // optional; raises the rate limit
	Cache    cache.Cache   // nil disables caching
	CacheTTL time.Duration // lifetime of cached listings
	Attempts int           // request attempts; values below 1 mean one
	Timeout  time.Duration // per request; zero means none
}

// Client lists public repositories for an account.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client.
func NewClient(opts Options) *Client {
	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": buildinfo.UserAgent(),
	}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		Client: integrations.NewClient(integrations.Options{
			Cache:     opts.Cache,
			Namespace: "github",
			TTL:       opts.CacheTTL,
			Headers:   headers,
			Retry:     httputil.Policy{Attempts: opts.Attempts, Delay: time.Second},
			Timeout:   opts.Timeout,
		}),
		baseURL: base,
	}
}

// BaseURL returns the API endpoint the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListRepositories fetches up to 100 of username's public repositories,
// most recently updated first, and returns them filtered and ordered by
// [Rank].
//
// Any failed request returns an error matching both
// errors.Is(err, integrations.ErrNetwork) and the NETWORK_ERROR code.
// If refresh is true, cached data is bypassed.
func (c *Client) ListRepositories(ctx context.Context, username string, refresh bool) ([]Repository, error) {
	username = strings.TrimSpace(username)
	if err := ferrors.ValidateUsername(username); err != nil {
		return nil, err
	}

	var repos []Repository
	err := c.Cached(ctx, "repos:"+strings.ToLower(username), refresh, &repos, func() error {
		repos = nil
		return c.Get(ctx, c.listURL(username), &repos)
	})
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "list repositories for %s", username)
	}
	return Rank(repos), nil
}

func (c *Client) listURL(username string) string {
	return fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=updated", c.baseURL, username, pageSize)
}
