// Package config loads folio's settings from a TOML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	ferrors "github.com/josz009/folio/pkg/errors"
)

const appName = "folio"

// Environment variables that override the file.
const (
	EnvUser      = "FOLIO_GITHUB_USER"
	EnvToken     = "GITHUB_TOKEN"
	EnvBaseURL   = "FOLIO_GITHUB_URL"
	EnvListen    = "FOLIO_LISTEN"
	EnvRedisAddr = "FOLIO_REDIS_ADDR"
	EnvCache     = "FOLIO_CACHE"
	EnvContent   = "FOLIO_CONTENT"
	EnvView      = "FOLIO_VIEW"
	EnvTimeout   = "FOLIO_GITHUB_TIMEOUT"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// GitHub configures the repository source.
type GitHub struct {
	User    string `toml:"user"`
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Retries int    `toml:"retries"`

	// Timeout bounds each GitHub request. Zero, the default, sets no
	// client timeout; requests then end with the command's context.
	Timeout time.Duration `toml:"timeout"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Cache selects and configures the response cache.
type Cache struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Dir     string        `toml:"dir"`
	Redis   Redis         `toml:"redis"`
}

// Server configures `folio serve`.
type Server struct {
	Listen          string        `toml:"listen"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	SnapshotTTL     time.Duration `toml:"snapshot_ttl"`
}

// Content points at a catalog replacing the embedded one.
type Content struct {
	Path string `toml:"path"`
}

// SIEM configures the event console.
type SIEM struct {
	View string `toml:"view"`
}

// Config is the complete folio configuration.
type Config struct {
	GitHub  GitHub  `toml:"github"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
	Content Content `toml:"content"`
	SIEM    SIEM    `toml:"siem"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		GitHub: GitHub{
			User:    "Josz009",
			BaseURL: "https://api.github.com",
			Retries: 1,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     time.Hour,
		},
		Server: Server{
			Listen:          ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			SnapshotTTL:     5 * time.Minute,
		},
		SIEM: SIEM{View: "dashboard"},
	}
}

// Load builds a configuration: defaults, then the TOML file at path, then
// the environment. An empty path uses [DefaultPath] and tolerates its
// absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config %s not found", path)
		}
		return ferrors.Wrap(ferrors.ErrCodeInternal, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "config %s: unknown key %s", path, undecoded[0])
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped; with no arguments ".env" is tried.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overrides fields from the environment. lookup is usually
// os.LookupEnv. Unparseable numeric values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvUser, &c.GitHub.User)
	set(EnvToken, &c.GitHub.Token)
	set(EnvBaseURL, &c.GitHub.BaseURL)
	set(EnvListen, &c.Server.Listen)
	set(EnvContent, &c.Content.Path)
	set(EnvView, &c.SIEM.View)

	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Backend = BackendRedis
	}
	// FOLIO_CACHE wins over the backend implied by FOLIO_REDIS_ADDR.
	set(EnvCache, &c.Cache.Backend)
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)

	if v, ok := lookup(EnvTimeout); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			c.GitHub.Timeout = d
		}
	}
	if v, ok := lookup("FOLIO_GITHUB_RETRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.GitHub.Retries = n
		}
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = d.GitHub.BaseURL
	}
	if c.GitHub.Retries < 1 {
		c.GitHub.Retries = 1
	}
	if c.GitHub.Timeout < 0 {
		c.GitHub.Timeout = 0
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = d.Cache.Backend
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = d.Cache.TTL
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Server.SnapshotTTL <= 0 {
		c.Server.SnapshotTTL = d.Server.SnapshotTTL
	}
	if c.SIEM.View == "" {
		c.SIEM.View = d.SIEM.View
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "cache backend redis requires cache.redis.addr or %s", EnvRedisAddr)
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if err := ferrors.ValidateUsername(c.GitHub.User); err != nil {
		return fmt.Errorf("github.user: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/folio/config.toml, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the file cache directory: cache.dir when set, otherwise
// ~/.cache/folio honouring XDG_CACHE_HOME.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
