package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// cratesCommand creates the crates command.
func (c *CLI) cratesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crates",
		Short: "List crates in the build with the people and teams that can publish them",
		Long: `List every crates.io crate in the build together with the users and teams
that can publish new versions of it. Crates owned by a team come first, then
crates with the most publishers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pkgs, err := c.sourcedDependencies(ctx)
			if err != nil {
				return err
			}
			complainAboutNonCratesIO(cmd.ErrOrStderr(), pkgs)

			own, err := c.fetchOwnership(ctx, pkgs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			list := own.Crates()
			fmt.Fprintln(out, "\nDependency crates with the people and teams that can publish them to crates.io:")
			fmt.Fprintln(out)
			for i, co := range list {
				names := make([]string, len(co.Publishers))
				for j, p := range co.Publishers {
					names[j] = p.Display()
				}
				fmt.Fprintf(out, "%d. %s: %s\n", i+1, co.Crate, strings.Join(names, ", "))
			}
			if len(list) > 0 {
				printInvitationsNote(out)
			}
			if len(own.Failed) > 0 {
				printWarning(cmd.ErrOrStderr(), "Could not fetch publishers for: %s", strings.Join(own.Failed, ", "))
			}
			return nil
		},
	}
}
