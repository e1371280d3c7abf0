package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/graphio"
	"github.com/matzehuels/bundlegraph/pkg/legacy"
)

// migrateCommand creates the migrate command, which converts a version 1
// graph document.
func (c *CLI) migrateCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "migrate <v1.json>",
		Short: "Convert a version 1 graph to the current format",
		Long: `Migrate reads a version 1 graph document and writes it in the current
format, keeping node, point and connection ids. The output format follows
the extension of --output (.json or .toml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--output is required")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeNotFound, err, "open %s", args[0])
			}
			defer f.Close()

			v1, err := legacy.Read(f)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", args[0])
			}
			g, err := legacy.MigrateGraph(v1, name)
			if err != nil {
				return err
			}
			if err := graphio.WriteFile(g, output); err != nil {
				return err
			}

			printSuccess(out, "Migrated %s (%d nodes, %d connections)", g.Name, g.NodeCount(), len(g.Connections()))
			printFile(out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output graph file (.json or .toml)")
	cmd.Flags().StringVar(&name, "name", "", "graph name (default: the document's name)")
	return cmd
}
