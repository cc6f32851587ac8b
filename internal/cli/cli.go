// Package cli implements the folio command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/josz009/folio/internal/config"
	"github.com/josz009/folio/pkg/buildinfo"
	"github.com/josz009/folio/pkg/cache"
	"github.com/josz009/folio/pkg/content"
	"github.com/josz009/folio/pkg/integrations/github"
	"github.com/josz009/folio/pkg/portfolio"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "folio"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means config.DefaultPath.
	ConfigPath string
	// NoCache forces the null cache regardless of configuration.
	NoCache bool

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "folio serves a developer portfolio from the terminal and over HTTP",
		Long:         `folio reconciles a curated project catalog with live GitHub repositories, runs a synthetic security event console and an interactive portfolio terminal, and exposes all of it over an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/folio/config.toml)")
	root.PersistentFlags().BoolVar(&c.NoCache, "no-cache", false, "disable the repository response cache")

	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.siemCommand())
	root.AddCommand(c.terminalCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("configuration loaded", "user", cfg.GitHub.User, "cache", cfg.Cache.Backend)
	c.cfg = cfg
	return cfg, nil
}

// newCache builds the configured cache backend. A file cache that cannot be
// created falls back to no caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.NoCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory; caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cannot create file cache; caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newGitHubClient creates a repository client over the configured cache.
// The returned cache must be closed by the caller.
func (c *CLI) newGitHubClient(ctx context.Context, cfg *config.Config) (*github.Client, cache.Cache, error) {
	cc, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client := github.NewClient(github.Options{
		BaseURL:  cfg.GitHub.BaseURL,
		Token:    cfg.GitHub.Token,
		Cache:    cc,
		CacheTTL: cfg.Cache.TTL,
		Attempts: cfg.GitHub.Retries,
		Timeout:  cfg.GitHub.Timeout,
	})
	return client, cc, nil
}

// catalog returns the configured content catalog, or the embedded one.
func (c *CLI) catalog(cfg *config.Config) (*content.Catalog, error) {
	if cfg.Content.Path == "" {
		return content.Default()
	}
	c.Logger.Debug("loading content catalog", "path", cfg.Content.Path)
	return content.Load(cfg.Content.Path)
}

// newLoader wires a project loader for user-facing commands.
func (c *CLI) newLoader(ctx context.Context) (*portfolio.Loader, *content.Catalog, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := c.catalog(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client, cc, err := c.newGitHubClient(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { _ = cc.Close() }
	return portfolio.NewLoader(client, cat.Curated(), c.Logger), cat, closeFn, nil
}

// user resolves the --user flag against the configuration.
func (c *CLI) user(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.GitHub.User, nil
}
