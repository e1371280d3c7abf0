// Package cli implements the bundlegraph command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlegraph/pkg/buildinfo"
	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/config"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/engine"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/graphio"
	"github.com/matzehuels/bundlegraph/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories, key prefixes and
// display.
const appName = "bundlegraph"

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

	// Verbose forces debug logging and registers logging hooks.
	Verbose bool

	configPath string
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
		Use:   appName,
		Short: "bundlegraph builds asset bundles from a node graph",
		Long: `bundlegraph runs an asset pipeline described as a graph of nodes
(loaders, filters, groupings, bundle builders, exporters) and rebuilds only
the nodes a file change affects.`,
		Version:       buildinfo.Resolved(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Verbose {
				c.SetLogLevel(LogDebug)
				observability.SetEngineHooks(observability.NewLogEngineHooks(c.Logger))
				observability.SetCacheHooks(observability.NewLogCacheHooks(c.Logger))
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", config.FileName, "project configuration file")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Project Setup
// =============================================================================

// projectFlags are the flags shared by commands that operate on a graph.
type projectFlags struct {
	root   string
	graph  string
	target string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "project root (default: config file directory)")
	cmd.Flags().StringVarP(&f.graph, "graph", "g", "", "graph file (.json or .toml)")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "build target (default: "+config.DefaultTarget+")")
}

// loadConfig reads the configuration file, applies flag overrides and
// defaults, and adopts the configured log level unless --verbose is set.
func (c *CLI) loadConfig(f projectFlags) (*config.Config, error) {
	cfg, err := config.LoadOptional(c.configPath)
	if err != nil {
		return nil, err
	}
	if f.root != "" {
		cfg.ProjectRoot = f.root
	}
	if f.graph != "" {
		cfg.Graph = f.graph
	}
	if f.target != "" {
		cfg.Target = f.target
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if !c.Verbose {
		c.SetLogLevel(cfg.Level())
	}
	return cfg, nil
}

func loadGraph(cfg *config.Config) (*dag.Graph, error) {
	if cfg.Graph == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no graph: set graph in %s or pass --graph", config.FileName)
	}
	return graphio.ReadFile(cfg.Graph)
}

// =============================================================================
// Cache & Engine Factory
// =============================================================================

// openCache returns the configured backend and the keyer to use with it.
func openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(nil, appName+":"), nil
	case config.BackendFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, cache.NewDefaultKeyer(), nil
	default:
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
}

// newEngine creates an engine for the configured project.
func (c *CLI) newEngine(cfg *config.Config, store cache.Cache, keyer cache.Keyer) *engine.Engine {
	return engine.New(engine.Options{
		ProjectRoot: cfg.ProjectRoot,
		Cache:       store,
		Keyer:       keyer,
		CacheTTL:    cfg.Cache.TTL.Duration,
		Logger:      c.Logger,
	})
}

// absRoot returns the absolute project root, used to scope snapshot keys.
func absRoot(cfg *config.Config) string {
	if abs, err := filepath.Abs(cfg.ProjectRoot); err == nil {
		return abs
	}
	return cfg.ProjectRoot
}
