package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/josz009/folio/internal/config"
	"github.com/josz009/folio/pkg/cache"
	"github.com/josz009/folio/pkg/portfolio"
)

func testCLI(t *testing.T, cfg *config.Config) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.cfg = cfg
	return c
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"projects", "repos", "siem", "terminal", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "no-cache"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestNewCache(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		backend string
		noCache bool
		check   func(t *testing.T, c cache.Cache)
	}{
		{"file", config.BackendFile, false, func(t *testing.T, c cache.Cache) {
			fc, ok := c.(*cache.FileCache)
			if !ok {
				t.Fatalf("got %T, want *cache.FileCache", c)
			}
			if fc.Dir() != filepath.Join(dir, "cache") {
				t.Errorf("dir = %q", fc.Dir())
			}
		}},
		{"none", config.BackendNone, false, func(t *testing.T, c cache.Cache) {
			if _, ok := c.(cache.NullCache); !ok {
				t.Errorf("got %T, want NullCache", c)
			}
		}},
		{"no-cache flag wins", config.BackendFile, true, func(t *testing.T, c cache.Cache) {
			if _, ok := c.(cache.NullCache); !ok {
				t.Errorf("got %T, want NullCache", c)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache.Backend = tt.backend
			cfg.Cache.Dir = filepath.Join(dir, "cache")
			c := testCLI(t, cfg)
			c.NoCache = tt.noCache

			got, err := c.newCache(context.Background(), cfg)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer got.Close()
			tt.check(t, got)
		})
	}
}

func TestUser(t *testing.T) {
	cfg := config.Default()
	cfg.GitHub.User = "configured"
	c := testCLI(t, cfg)

	if got, _ := c.user(""); got != "configured" {
		t.Errorf("user(\"\") = %q, want configured", got)
	}
	if got, _ := c.user("flagged"); got != "flagged" {
		t.Errorf("user(flagged) = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	cfg := config.Default()
	c := testCLI(t, cfg)

	cat, err := c.catalog(cfg)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(cat.Curated()) == 0 {
		t.Error("embedded catalog has no curated projects")
	}

	cfg.Content.Path = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := c.catalog(cfg); err == nil {
		t.Error("missing catalog file: expected error")
	}
}

func TestRenderSnapshot(t *testing.T) {
	live := "https://demo.dev"
	snap := &portfolio.Snapshot{
		Username: "octocat",
		Projects: []portfolio.ProjectRecord{
			{Title: "Featured One", Category: portfolio.CategoryDevelopment, TechStack: []string{"Go"}, LiveURL: &live, Highlight: "LEARNING PROJECT"},
		},
		Extra: []portfolio.ProjectRecord{
			{Title: "Side Thing", Category: portfolio.CategoryDevelopment, TechStack: []string{"Rust", "WASM", "Tokio", "Serde"}},
		},
		Degraded:  true,
		FetchedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	renderSnapshot(&buf, snap, snap.FetchedAt)
	out := buf.String()

	for _, want := range []string{"Featured One", "Side Thing", "https://demo.dev", "curated only, GitHub unavailable", "Rust, WASM, Tokio +1", "★ Featured One · LEARNING PROJECT"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStackSummary(t *testing.T) {
	tests := []struct {
		stack []string
		n     int
		want  string
	}{
		{nil, 3, ""},
		{[]string{"Go"}, 3, "Go"},
		{[]string{"a", "b", "c"}, 3, "a, b, c"},
		{[]string{"a", "b", "c", "d", "e"}, 2, "a, b +3"},
	}
	for _, tt := range tests {
		if got := stackSummary(tt.stack, tt.n); got != tt.want {
			t.Errorf("stackSummary(%v, %d) = %q, want %q", tt.stack, tt.n, got, tt.want)
		}
	}
}

func TestOpenBrowserRejectsSchemes(t *testing.T) {
	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "://bad"} {
		if err := openBrowser(raw); err == nil {
			t.Errorf("openBrowser(%q) succeeded", raw)
		}
	}
}
