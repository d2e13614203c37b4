package commands

import "github.com/spf13/cobra"

func (c *CLI) newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the cache paths and keys for this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Keys(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
