package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sculpt/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one invalidation pass and report dirty workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			noAffected, _ := cmd.Flags().GetBool("no-affected")
			return c.app.Run(cmd.Context(), app.RunOptions{
				Strict:     strict,
				NoAffected: noAffected,
			})
		},
	}
	cmd.Flags().BoolP("strict", "s", false, "Fail when any workspace could not be invalidated")
	cmd.Flags().Bool("no-affected", false, "Do not compute the workspaces affected by dirty ones")
	return cmd
}
