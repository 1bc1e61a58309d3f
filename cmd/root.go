package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "arbcore",
	Short: "Binary prediction-market arbitrage core",
	Long: `arbcore streams live order books for a binary prediction-market
venue, detects fee-adjusted YES/NO arbitrage (yes_ask + no_ask < 1.0),
and dispatches paired limit orders with client-side compensation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is not fatal: production deployments configure
		// everything through the real environment.
		_ = godotenv.Load()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
