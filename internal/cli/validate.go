package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCommand creates the validate command, which checks the graph's
// structure and prints the execution order.
func (c *CLI) validateCommand() *cobra.Command {
	var project projectFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the graph and print its execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := c.loadConfig(project)
			if err != nil {
				return err
			}
			g, err := loadGraph(cfg)
			if err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return err
			}
			order, err := g.TopologicalOrder()
			if err != nil {
				return err
			}

			printSuccess(out, "Graph %s is valid", styleValue.Render(g.Name))
			printStats(out,
				styleDim.Render(fmt.Sprintf("%d nodes", g.NodeCount())),
				styleDim.Render(fmt.Sprintf("%d connections", len(g.Connections()))))
			for i, n := range order {
				printKeyValue(out, fmt.Sprintf("%3d", i+1), n.Name+" "+styleDim.Render(string(n.Kind())))
			}
			return nil
		},
	}

	project.register(cmd)
	return cmd
}
