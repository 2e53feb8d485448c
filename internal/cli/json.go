package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/cargo"
	"github.com/matzehuels/supplychain/pkg/report"
)

// jsonCommand creates the json command.
func (c *CLI) jsonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "json",
		Short: "Print the full audit as JSON",
		Long: `Print the publishers of every crates.io crate in the build, plus the local and
foreign crates that could not be audited, as a JSON document. Keys and lists
are sorted, so the output of two runs can be diffed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := c.runAudit(ctx)
			if err != nil {
				return err
			}
			pkgs := res.Packages()

			own, err := c.fetchOwnership(ctx, pkgs)
			if err != nil {
				return err
			}

			r := report.Build(pkgs, own)
			if m, err := cargo.ReadManifest(c.flags.manifestPath); err == nil {
				r.Project = m.ProjectName()
			} else {
				loggerFromContext(ctx).Debug("manifest not readable", "err", err)
				r.Project = res.Graph.Name()
			}
			return report.WriteJSON(cmd.OutOrStdout(), r)
		},
	}
}
