package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sculpt/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run invalidation passes as files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			addr, _ := cmd.Flags().GetString("metrics-addr")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Debounce:    debounce,
				MetricsAddr: addr,
			})
		},
	}
	cmd.Flags().Duration("debounce", 0, "Quiet period after the last change before a pass runs (default from config)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}
