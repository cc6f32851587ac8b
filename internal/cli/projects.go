package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/josz009/folio/pkg/integrations/github"
	"github.com/josz009/folio/pkg/portfolio"
)

type projectsOpts struct {
	user    string
	json    bool
	refresh bool
}

// projectsCommand creates the projects command.
func (c *CLI) projectsCommand() *cobra.Command {
	var opts projectsOpts

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Show curated projects reconciled with live GitHub data",
		Long: `Show the curated project list with repository and live links filled in from
the owner's public GitHub repositories, followed by the most relevant
repositories that are not already featured.

If GitHub cannot be reached the curated list is shown unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProjects(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "GitHub account (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the snapshot as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached repository data")

	return cmd
}

func (c *CLI) runProjects(cmd *cobra.Command, opts projectsOpts) error {
	ctx := cmd.Context()
	user, err := c.user(opts.user)
	if err != nil {
		return err
	}
	loader, _, closeFn, err := c.newLoader(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	prog := newProgress(c.Logger)
	spinner := c.startSpinner(ctx, opts.json, "Loading projects for %s...", user)
	snap, err := loader.Load(ctx, user, opts.refresh)
	if err != nil {
		spinner.StopWithError("Loading projects for %s failed", user)
		return err
	}
	if snap.Degraded {
		spinner.StopWithWarning("GitHub unavailable; showing %d curated projects only", len(snap.Projects))
	} else {
		spinner.StopWithSuccess("Loaded %d projects and %d more repositories", len(snap.Projects), len(snap.Extra))
	}
	prog.done("projects loaded", "user", user, "projects", len(snap.Projects),
		"extra", len(snap.Extra), "degraded", snap.Degraded)

	if opts.json {
		return writeJSON(os.Stdout, snap)
	}
	renderSnapshot(os.Stdout, snap, time.Now())
	return nil
}

type reposOpts struct {
	user    string
	json    bool
	refresh bool
}

// reposCommand creates the repos command.
func (c *CLI) reposCommand() *cobra.Command {
	var opts reposOpts

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List ranked public repositories as project records",
		Long: `List the account's public repositories with forks removed, repositories
with a homepage first, then by stars.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRepos(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "GitHub account (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print records as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached repository data")

	return cmd
}

func (c *CLI) runRepos(cmd *cobra.Command, opts reposOpts) error {
	ctx := cmd.Context()
	user, err := c.user(opts.user)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	client, cc, err := c.newGitHubClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cc.Close()

	prog := newProgress(c.Logger)
	spinner := c.startSpinner(ctx, opts.json, "Fetching repositories for %s...", user)
	repos, err := client.ListRepositories(ctx, user, opts.refresh)
	if err != nil {
		spinner.StopWithError("Fetching repositories for %s failed", user)
		return err
	}
	spinner.StopWithSuccess("Fetched %d repositories", len(repos))
	prog.done("repositories fetched", "user", user, "repositories", len(repos))

	now := time.Now()
	records := make([]portfolio.ProjectRecord, len(repos))
	for i, r := range repos {
		records[i] = portfolio.MapRepository(r, now)
	}
	if opts.json {
		return writeJSON(os.Stdout, records)
	}
	renderRepos(os.Stdout, repos, records)
	return nil
}

// startSpinner animates on stderr unless quiet, in which case the spinner
// and its outcome line are discarded.
func (c *CLI) startSpinner(ctx context.Context, quiet bool, format string, args ...any) *Spinner {
	if quiet {
		return newSpinner(ctx, io.Discard, fmt.Sprintf(format, args...))
	}
	s := newSpinner(ctx, os.Stderr, fmt.Sprintf(format, args...))
	s.Start()
	return s
}

// =============================================================================
// Rendering
// =============================================================================

// headerRow is the row index lipgloss/table passes for the header.
const headerRow = -1

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func renderSnapshot(w io.Writer, snap *portfolio.Snapshot, now time.Time) {
	fmt.Fprintln(w, StyleTitle.Render("Featured Projects")+StyleDim.Render(" · @"+snap.Username))
	if snap.Degraded {
		fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render("curated only, GitHub unavailable"))
	}
	fmt.Fprintln(w, projectTable(snap.Projects).Render())

	if len(snap.Extra) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("More on GitHub"))
		fmt.Fprintln(w, projectTable(snap.Extra).Render())
	}
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d featured · %d more · fetched %s",
		len(snap.Projects), len(snap.Extra), snap.FetchedAt.Format(time.Kitchen))))
}

func projectTable(records []portfolio.ProjectRecord) *table.Table {
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		title := p.Title
		if p.Highlight != "" {
			title = "★ " + title + " · " + p.Highlight
		}
		rows = append(rows, []string{title, p.Category, stackSummary(p.TechStack, 3), linkOrDash(p.LiveURL), linkOrDash(p.SourceURL)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Project", "Category", "Stack", "Live", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return tableHeaderStyle
			case col == 0:
				return StyleValue.Bold(true)
			case col >= 3:
				return StyleLink
			}
			return StyleDim
		})
}

func renderRepos(w io.Writer, repos []github.Repository, records []portfolio.ProjectRecord) {
	rows := make([][]string, 0, len(records))
	for i, p := range records {
		rows = append(rows, []string{
			p.Title,
			metric(p, portfolio.MetricLanguage),
			fmt.Sprint(repos[i].Stars),
			fmt.Sprint(repos[i].Forks),
			metric(p, portfolio.MetricUpdated),
			linkOrDash(p.LiveURL),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Repository", "Language", "Stars", "Forks", "Updated", "Homepage").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return tableHeaderStyle
			case col == 2 || col == 3:
				return StyleNumber
			case col == 5:
				return StyleLink
			}
			return StyleValue
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d repositories", len(records))))
}

func stackSummary(stack []string, n int) string {
	if len(stack) <= n {
		return strings.Join(stack, ", ")
	}
	return strings.Join(stack[:n], ", ") + fmt.Sprintf(" +%d", len(stack)-n)
}

func metric(p portfolio.ProjectRecord, label string) string {
	if v, ok := p.Metric(label); ok {
		return v
	}
	return "—"
}

func linkOrDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
