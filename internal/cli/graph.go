package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the build graph colored by provenance",
		Long: `Render the classified build graph. Workspace crates are blue, crates.io crates
white and everything else (git, path, other registries) salmon. Combine with
--no-dev to see only what ships.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
			}

			ctx := cmd.Context()
			res, err := c.runAudit(ctx)
			if err != nil {
				return err
			}

			data := []byte(dot.ToDOT(res.Classified, dot.Options{Detailed: detailed}))
			if format == formatSVG {
				prog := newProgress(loggerFromContext(ctx))
				if data, err = dot.RenderSVG(ctx, string(data)); err != nil {
					return err
				}
				prog.done("Rendered SVG")
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include version and source in node labels")
	return cmd
}
