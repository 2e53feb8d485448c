package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/publishers"
)

// publishersCommand creates the publishers command.
func (c *CLI) publishersCommand() *cobra.Command {
	var diffable bool

	cmd := &cobra.Command{
		Use:   "publishers",
		Short: "List the people and teams that can publish crates in the build",
		Long: `List every user and team that can publish a new version of at least one
crates.io crate in the build, with the crates they control. Publishers of the
most crates come first.`,
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
			users := own.Publishers(publishers.User)
			if len(users) > 0 {
				fmt.Fprintln(out, "\nThe following individuals can publish updates for your dependencies:")
				fmt.Fprintln(out)
				renderPublisherTable(out, users, diffable)
				printInvitationsNote(out)
			}

			teams := own.Publishers(publishers.Team)
			if len(teams) > 0 {
				fmt.Fprintln(out, "\nAll members of the following teams can publish updates for your dependencies:")
				fmt.Fprintln(out)
				renderPublisherTable(out, teams, diffable)
				fmt.Fprintln(out, "\nGitHub teams are black boxes. It's impossible to get the member list without explicit permission.")
			}

			if len(own.Failed) > 0 {
				printWarning(cmd.ErrOrStderr(), "Could not fetch publishers for: %s", strings.Join(own.Failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&diffable, "diffable", false, "plain, unnumbered output suitable for diffing")
	return cmd
}

// renderPublisherTable writes one row per publisher. The diffable form drops
// the row numbers and crate counts so adding a crate changes a single line.
func renderPublisherTable(w io.Writer, list []publishers.PublisherCrates, diffable bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	if diffable {
		t.SetStyle(table.StyleLight)
		t.Style().Options = table.OptionsNoBordersAndSeparators
		t.AppendHeader(table.Row{"Publisher", "Crates"})
		for _, pc := range list {
			t.AppendRow(table.Row{pc.Publisher.Display(), strings.Join(pc.Crates, ", ")})
		}
		t.Render()
		return
	}

	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Publisher", "Name", "Count", "Crates"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})
	for i, pc := range list {
		name := pc.Publisher.Name
		if pc.Publisher.URL != "" && pc.Publisher.Kind == publishers.Team {
			name = strings.TrimSpace(name + " " + pc.Publisher.URL)
		}
		t.AppendRow(table.Row{i + 1, pc.Publisher.Display(), name, len(pc.Crates), strings.Join(pc.Crates, ", ")})
	}
	t.Render()
}
