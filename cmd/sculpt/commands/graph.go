package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dependency graph for cycles and version conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Validate(cmd.Context())
		},
	}
}

func (c *CLI) newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print all workspaces in build order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Order(cmd.Context())
		},
	}
}
