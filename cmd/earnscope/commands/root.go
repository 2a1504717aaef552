package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "earnscope",
	Short: "Earnings season sector aggregation and growth surprise ranking",
	Long: `Earnscope CLI

Aggregates reported income statements by sector with same-cohort
quarter-over-quarter and year-over-year growth, and ranks tickers by
growth surprise.

Usage:
  go run ./cmd/earnscope [command]

Examples:
  go run ./cmd/earnscope api
  go run ./cmd/earnscope summary --period 2023Q1 --level L1
  go run ./cmd/earnscope surprises --metric Revenue --top 15
  go run ./cmd/earnscope periods --frequency Annual`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
