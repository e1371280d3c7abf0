// Package config loads the bundlegraph.toml project configuration.
//
// A minimal file names the graph to run:
//
//	graph = "Assets/BundleGraph/main.toml"
//
// Everything else has a default. Command-line flags override file values;
// call [Config.ValidateAndSetDefaults] after applying them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "bundlegraph.toml"

// Defaults.
const (
	DefaultTarget       = "standalone"
	DefaultCacheBackend = BackendFile
	DefaultRedisAddr    = "localhost:6379"
	DefaultLogLevel     = "info"

	appName = "bundlegraph"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

var backends = []string{BackendFile, BackendRedis, BackendNone}

// Config is the project configuration.
type Config struct {
	// ProjectRoot is the directory holding Assets/. Relative paths are
	// resolved against the configuration file's directory.
	ProjectRoot string `toml:"project_root"`

	// Graph is the graph document to run, .json or .toml.
	Graph string `toml:"graph"`

	// Target is the build target.
	Target string `toml:"target"`

	Cache CacheConfig `toml:"cache"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// CacheConfig selects where engine output caches and file snapshots live.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Load reads path. Relative ProjectRoot, Graph and Cache.Dir values are
// made relative to the file's directory.
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	base := filepath.Dir(path)
	if cfg.ProjectRoot != "" && !filepath.IsAbs(cfg.ProjectRoot) {
		cfg.ProjectRoot = filepath.Join(base, cfg.ProjectRoot)
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = base
	}
	for _, p := range []*string{&cfg.Graph, &cfg.Cache.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return &cfg, nil
}

// LoadOptional reads path when it exists and returns an empty Config
// otherwise.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return Load(path)
}

// ValidateAndSetDefaults fills in unset fields and checks the result. It is
// idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
	if c.Target == "" {
		c.Target = DefaultTarget
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "log_level %q: %v", c.LogLevel, err)
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q: want one of %s", c.Cache.Backend, strings.Join(backends, ", "))
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			dir, err := CacheDir()
			if err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
			c.Cache.Dir = dir
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			c.Cache.RedisAddr = DefaultRedisAddr
		}
		if c.Cache.RedisDB < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_db must not be negative")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// Level returns the parsed log level, info when LogLevel is invalid.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// CacheDir returns the XDG cache directory (~/.cache/bundlegraph).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
