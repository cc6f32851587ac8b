// Package portfolio turns remote repositories and curated content into the
// project list folio displays.
//
// # Records
//
// A [ProjectRecord] is the display form of a project. Curated records come
// from the content catalog; derived records come from [MapRepository], which
// converts a [github.Repository] without any I/O:
//
//	rec := portfolio.MapRepository(repo, time.Now())
//	fmt.Println(rec.Title, rec.Category, rec.Metrics)
//
// # Reconciliation
//
// [Reconcile] walks the curated list in order and, for each entry, looks for
// the first remote repository whose html url equals the curated source url or
// whose name contains the curated title in slug form. A match may only fill
// link fields the curated record leaves empty; everything else the author
// wrote wins. Records without a match pass through unchanged.
//
// [Supplementary] returns derived records for the remote repositories no
// curated record claimed.
//
// # Loading
//
// [Loader] combines a [RepositoryLister] with the curated list. Fetch
// failures are logged and the curated list is returned on its own with
// [Snapshot.Degraded] set, so callers always have something to render.
//
// [github.Repository]: github.com/josz009/folio/pkg/integrations/github.Repository
package portfolio
