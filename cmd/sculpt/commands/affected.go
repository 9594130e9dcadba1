package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sculpt/internal/app"
)

func (c *CLI) newAffectedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "affected [workspaces...]",
		Short: "List the workspaces affected by a change, dependencies first",
		Long: "List the workspaces affected by a change to the given workspaces.\n" +
			"Without arguments, an invalidation pass runs and its dirty workspaces are used.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unordered, _ := cmd.Flags().GetBool("unordered")
			return c.app.Affected(cmd.Context(), args, app.AffectedOptions{Unordered: unordered})
		},
	}
	cmd.Flags().BoolP("unordered", "u", false, "Print the affected set sorted by name instead of build order")
	return cmd
}
