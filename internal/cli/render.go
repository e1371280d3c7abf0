package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/engine"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	project    projectFlags
	output     string // output file; stdout when empty
	format     string // dot or svg; inferred from output when empty
	preview    bool   // colour nodes by a Preview run
	detailed   bool   // add ids and revisit reasons to labels
	horizontal bool   // left-to-right layout
}

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the graph as a DOT or SVG diagram",
		Example: `  bundlegraph render -o graph.svg
  bundlegraph render --preview --detailed | dot -Tpng > graph.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	opts.project.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg (default: from output extension, else dot)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "colour nodes by the result of a dry run")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and revisit reasons")
	cmd.Flags().BoolVar(&opts.horizontal, "horizontal", false, "lay out left to right")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	format := opts.format
	if format == "" {
		format = formatDOT
		if strings.EqualFold(filepath.Ext(opts.output), "."+formatSVG) {
			format = formatSVG
		}
	}
	if format != formatDOT && format != formatSVG {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", format)
	}

	cfg, err := c.loadConfig(opts.project)
	if err != nil {
		return err
	}
	g, err := loadGraph(cfg)
	if err != nil {
		return err
	}

	ropts := render.Options{Detailed: opts.detailed, Horizontal: opts.horizontal}
	if opts.preview {
		eng := c.newEngine(cfg, nil, nil)
		rep, err := eng.Preview(ctx, dag.Target(cfg.Target), g)
		if err != nil {
			return err
		}
		ropts.Report = rep
		if n := rep.Count(engine.StatusFailed); n > 0 {
			c.Logger.Warn("preview reported failures", "failed", n)
		}
	}

	data := []byte(render.ToDOT(g, ropts))
	if format == formatSVG {
		if data, err = render.RenderSVG(ctx, string(data)); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(cmd.OutOrStdout(), "Rendered %s", g.Name)
	printFile(cmd.OutOrStdout(), opts.output)
	return nil
}
