package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent output cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached outputs and snapshots",
		Long: `Clear empties the file cache. The next run rebuilds every node.
A Redis cache is shared between machines and is not cleared here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := c.loadConfig(projectFlags{})
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.BackendFile {
				printWarning(out, "Cache backend is %s; nothing to clear locally", cfg.Cache.Backend)
				return nil
			}

			fc, err := cache.NewFileCache(cfg.Cache.Dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached entries", count)
			printDetail(out, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(projectFlags{})
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.BackendFile:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			case config.BackendRedis:
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d\n", cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), config.BackendNone)
			}
			return nil
		},
	}
}
