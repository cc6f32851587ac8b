package portfolio

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/josz009/folio/pkg/integrations/github"
	"github.com/josz009/folio/pkg/observability"
)

// DefaultExtraLimit caps [Snapshot.Extra].
const DefaultExtraLimit = 6

// RepositoryLister fetches the ranked public repositories of an account.
// *github.Client implements it.
type RepositoryLister interface {
	ListRepositories(ctx context.Context, username string, refresh bool) ([]github.Repository, error)
}

// Snapshot is the result of one [Loader.Load].
type Snapshot struct {
	Username     string              `json:"username"`
	Projects     []ProjectRecord     `json:"projects"`
	Extra        []ProjectRecord     `json:"extra"`
	Repositories []github.Repository `json:"repositories"`
	Degraded     bool                `json:"degraded"`
	FetchedAt    time.Time           `json:"fetchedAt"`
}

// Loader fetches repositories and reconciles them with the curated list.
// A Loader holds no per-call state and is safe for concurrent use.
type Loader struct {
	Lister     RepositoryLister
	Curated    []ProjectRecord
	Logger     *log.Logger
	ExtraLimit int
	Now        func() time.Time
}

// NewLoader creates a loader. A nil logger falls back to log.Default().
func NewLoader(lister RepositoryLister, curated []ProjectRecord, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		Lister:     lister,
		Curated:    curated,
		Logger:     logger,
		ExtraLimit: DefaultExtraLimit,
		Now:        time.Now,
	}
}

// Load fetches username's repositories and reconciles them with the curated
// list. A failed fetch is logged and degrades to the curated list alone; it
// is not returned. The only error is ctx.Err() when ctx is done by the time
// the fetch completes, in which case the result is discarded.
func (l *Loader) Load(ctx context.Context, username string, refresh bool) (*Snapshot, error) {
	start := time.Now()
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}

	var repos []github.Repository
	degraded := false
	if l.Lister == nil {
		degraded = true
		logger.Warn("no repository source configured; showing curated projects only")
	} else {
		var err error
		repos, err = l.Lister.ListRepositories(ctx, username, refresh)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			degraded = true
			repos = nil
			logger.Warn("repository fetch failed; showing curated projects only", "user", username, "error", err)
		}
	}

	now := l.now()
	snap := &Snapshot{
		Username:     username,
		Projects:     Reconcile(l.Curated, repos, now),
		Extra:        Supplementary(repos, l.Curated, now, l.ExtraLimit),
		Repositories: repos,
		Degraded:     degraded,
		FetchedAt:    now,
	}
	if snap.Repositories == nil {
		snap.Repositories = []github.Repository{}
	}

	elapsed := time.Since(start)
	observability.Loader().OnLoad(ctx, username, len(snap.Projects), degraded, elapsed)
	logger.Debug("loaded projects", "user", username, "projects", len(snap.Projects),
		"repositories", len(repos), "degraded", degraded, "duration", elapsed)
	return snap, nil
}

func (l *Loader) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
