// Package integrations provides the shared JSON-over-HTTP client used by the
// API clients in its subpackages (currently [github]).
//
// [Client] handles default headers, status classification, retries through
// [httputil.Retry] and response caching through a [cache.Cache]:
//
//	c := integrations.NewClient(integrations.Options{
//	    Cache:     cache.NewNullCache(),
//	    Namespace: "github",
//	    TTL:       time.Hour,
//	    Headers:   map[string]string{"Accept": "application/vnd.github.v3+json"},
//	})
//	var out []Repository
//	err := c.Cached(ctx, "repos:octocat", false, &out, func() error {
//	    return c.Get(ctx, url, &out)
//	})
//
// Every failed request satisfies errors.Is(err, ErrNetwork).
//
// [github]: github.com/josz009/folio/pkg/integrations/github
// [httputil.Retry]: github.com/josz009/folio/pkg/httputil.Retry
// [cache.Cache]: github.com/josz009/folio/pkg/cache.Cache
package integrations
