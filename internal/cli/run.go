package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/cache"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/engine"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/observability"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	project   projectFlags
	imported  []string // paths reported as imported or modified
	deleted   []string // paths reported as deleted
	moved     []string // new locations of moved paths
	movedFrom []string // old locations of moved paths
	scan      bool     // derive the delta from the stored file snapshot
	noCache   bool     // ignore and do not write the persistent cache
	dryRun    bool     // run Prepare only
}

func (o runOpts) delta() asset.Delta {
	return asset.Delta{
		Imported:  o.imported,
		Deleted:   o.deleted,
		Moved:     o.moved,
		MovedFrom: o.movedFrom,
	}
}

// runCommand creates the run command, which executes the graph
// incrementally against a file delta.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the graph, rebuilding only what changed",
		Long: `Run restores the output cache of the previous run, marks the nodes the
file delta affects, rebuilds them and everything downstream, and saves the
cache again.

The delta is given with --imported, --deleted, --moved and --moved-from, or
derived with --scan by comparing the Assets directory against the snapshot
stored by the previous --scan run.`,
		Example: `  bundlegraph run --scan
  bundlegraph run --imported Assets/Textures/hero.png
  bundlegraph run --target ios --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, opts)
		},
	}

	opts.project.register(cmd)
	cmd.Flags().StringSliceVar(&opts.imported, "imported", nil, "imported or modified asset paths")
	cmd.Flags().StringSliceVar(&opts.deleted, "deleted", nil, "deleted asset paths")
	cmd.Flags().StringSliceVar(&opts.moved, "moved", nil, "new paths of moved assets")
	cmd.Flags().StringSliceVar(&opts.movedFrom, "moved-from", nil, "old paths of moved assets")
	cmd.Flags().BoolVar(&opts.scan, "scan", false, "derive the delta from the stored file snapshot")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the persistent cache")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "run Prepare on every node without building")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, opts runOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig(opts.project)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	g, err := loadGraph(cfg)
	if err != nil {
		return err
	}
	prog.done("Loaded graph " + g.Name)

	store, keyer, err := openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	eng := c.newEngine(cfg, store, keyer)
	target := dag.Target(cfg.Target)

	if opts.dryRun {
		rep, err := eng.Preview(ctx, target, g)
		if rep != nil {
			printReport(out, rep)
		}
		if err != nil {
			return err
		}
		return failure(rep.Count(engine.StatusFailed))
	}

	if ok, err := eng.Load(ctx, g, target); err != nil {
		c.Logger.Warn("output cache unreadable, rebuilding", "err", err)
	} else if ok {
		c.Logger.Debug("restored output cache", "nodes", len(eng.Cached()))
	}

	delta := opts.delta()
	res := asset.NewFileResolver(cfg.ProjectRoot)
	var snap asset.Snapshot
	if opts.scan {
		scanned, current, err := scanDelta(ctx, store, keyer, res, absRoot(cfg))
		if err != nil {
			return err
		}
		delta = mergeDelta(delta, scanned)
		snap = current
		c.Logger.Info("scanned assets", "files", len(current), "changed", scanned.Len())
	}

	rep, runErr := eng.Run(ctx, target, g, delta)
	if rep == nil {
		return runErr
	}
	printReport(out, rep)

	if err := eng.Save(ctx, g, target); err != nil {
		c.Logger.Warn("could not save output cache", "err", err)
	}
	if snap != nil && runErr == nil {
		// Builds may write below Assets; the next scan must not see those
		// files as changes.
		if after, err := asset.Scan(res, asset.AssetsRoot); err == nil {
			snap = after
		} else {
			c.Logger.Warn("could not rescan assets", "err", err)
		}
		if err := saveSnapshot(ctx, store, keyer, absRoot(cfg), snap, cfg.Cache.TTL.Duration); err != nil {
			c.Logger.Warn("could not save file snapshot", "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	return failure(len(rep.Errors))
}

// failure returns the error reported for a run with n failed nodes.
func failure(n int) error {
	if n == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeBuild, "%d node(s) failed", n)
}

// mergeDelta concatenates two deltas.
func mergeDelta(a, b asset.Delta) asset.Delta {
	return asset.Delta{
		Imported:  append(append([]string(nil), a.Imported...), b.Imported...),
		Deleted:   append(append([]string(nil), a.Deleted...), b.Deleted...),
		Moved:     append(append([]string(nil), a.Moved...), b.Moved...),
		MovedFrom: append(append([]string(nil), a.MovedFrom...), b.MovedFrom...),
	}
}

// =============================================================================
// File Snapshots
// =============================================================================

const snapshotKeyType = "snapshot"

// scanDelta scans the Assets directory and diffs it against the stored
// snapshot. Without a stored snapshot every file counts as imported.
func scanDelta(ctx context.Context, store cache.Cache, keyer cache.Keyer, res asset.Resolver, root string) (asset.Delta, asset.Snapshot, error) {
	current, err := asset.Scan(res, asset.AssetsRoot)
	if err != nil {
		return asset.Delta{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "scan %s", asset.AssetsRoot)
	}
	hooks := observability.Cache()
	data, ok, err := store.Get(ctx, keyer.SnapshotKey(root, asset.AssetsRoot))
	if err != nil || !ok {
		hooks.OnCacheMiss(ctx, snapshotKeyType)
		return current.Diff(nil), current, nil
	}
	prev, err := asset.UnmarshalSnapshot(data)
	if err != nil {
		hooks.OnCacheMiss(ctx, snapshotKeyType)
		return current.Diff(nil), current, nil
	}
	hooks.OnCacheHit(ctx, snapshotKeyType)
	return current.Diff(prev), current, nil
}

func saveSnapshot(ctx context.Context, store cache.Cache, keyer cache.Keyer, root string, snap asset.Snapshot, ttl time.Duration) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	if err := store.Set(ctx, keyer.SnapshotKey(root, asset.AssetsRoot), data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, snapshotKeyType, len(data))
	return nil
}
