package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the shop balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		return runCall(cmd.OutOrStdout(), "balance", func(ctx context.Context) (gatewayResult, error) {
			return client.Balance(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
