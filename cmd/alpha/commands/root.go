package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "alpha",
	Short: "Daily US investment intelligence digest",
	Long: `Alpha - daily investment intelligence digest

Runs four rule-based decision engines (technical scans, portfolio risk,
catalyst/macro classification, metals correlation) against one trading
day and publishes a markdown report before the market open.

Usage:
  go run ./cmd/alpha [command]

Examples:
  go run ./cmd/alpha run
  go run ./cmd/alpha run --date 2026-08-24 --dry-run
  go run ./cmd/alpha scheduler
  go run ./cmd/alpha api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
