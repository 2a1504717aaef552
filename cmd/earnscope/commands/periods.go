package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhvo/earnscope/internal/period"
)

// periodsCmd represents the periods command
var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List available reporting periods",
	Long: `Lists the reporting periods carrying at least one tracked metric,
newest first.

Example:
  go run ./cmd/earnscope periods
  go run ./cmd/earnscope periods --frequency Annual`,
	RunE: runPeriods,
}

var periodsFrequency string

func init() {
	rootCmd.AddCommand(periodsCmd)

	periodsCmd.Flags().StringVar(&periodsFrequency, "frequency", string(period.Quarterly), "reporting frequency (Quarterly|Annual)")
}

func runPeriods(cmd *cobra.Command, args []string) error {
	frequency, err := period.ParseFrequency(periodsFrequency)
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	periods, err := rt.source.AvailablePeriods(context.Background(), frequency)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}

	if len(periods) == 0 {
		fmt.Printf("No %s periods available.\n", frequency)
		return nil
	}

	fmt.Printf("%s periods (%d):\n", frequency, len(periods))
	for _, p := range periods {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
