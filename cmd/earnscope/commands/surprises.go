package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/internal/surprise"
)

// surprisesCmd represents the surprises command
var surprisesCmd = &cobra.Command{
	Use:   "surprises",
	Short: "Best and worst growth surprise tickers",
	Long: `Ranks tickers on combined QoQ/YoY growth percentile for one period
and prints the best and worst lists.

Example:
  go run ./cmd/earnscope surprises
  go run ./cmd/earnscope surprises --metric Revenue --min-base 500 --top 15`,
	RunE: runSurprises,
}

var (
	surprisesFrequency string
	surprisesPeriod    string
	surprisesMetric    string
	surprisesMinBase   float64
	surprisesTop       int
)

func init() {
	rootCmd.AddCommand(surprisesCmd)

	surprisesCmd.Flags().StringVar(&surprisesFrequency, "frequency", string(period.Quarterly), "reporting frequency (Quarterly|Annual)")
	surprisesCmd.Flags().StringVar(&surprisesPeriod, "period", "", "period to rank, e.g. 2023Q1 (default latest)")
	surprisesCmd.Flags().StringVar(&surprisesMetric, "metric", surprise.AllMetrics, "metric to rank on, or \"all\"")
	surprisesCmd.Flags().Float64Var(&surprisesMinBase, "min-base", 200, "minimum absolute base value in billions")
	surprisesCmd.Flags().IntVar(&surprisesTop, "top", 10, "list length per direction")
}

func runSurprises(cmd *cobra.Command, args []string) error {
	frequency, err := period.ParseFrequency(surprisesFrequency)
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()

	selected, err := rt.resolvePeriod(ctx, frequency, surprisesPeriod)
	if err != nil {
		return err
	}
	comparisons, err := period.ResolveComparisons(frequency, selected)
	if err != nil {
		return err
	}

	rows, err := rt.source.Financials(ctx, frequency, comparisons.FetchSet())
	if err != nil {
		return fmt.Errorf("load financials: %w", err)
	}

	result, err := surprise.RankTickers(
		facts.Pivot(rows), frequency, selected, surprisesMetric, surprisesMinBase*billion, surprisesTop)
	if err != nil {
		return err
	}

	renderSurprises(selected, result)
	return nil
}

func renderSurprises(selected string, result *surprise.Result) {
	// The base metric anchors the displayed value and growth columns;
	// combined mode still scores across every metric.
	anchor := result.Metrics[0]
	if len(result.Metrics) > 1 {
		anchor = contracts.BaseMetric()
	}

	fmt.Printf("Growth surprises for %s (metrics: %s)\n", selected, strings.Join(result.Metrics, ", "))
	fmt.Printf("Min base: %s bn %s\n", formatBillions(&result.MinBase), anchor)

	renderEntries("BEST", anchor, result.Best)
	renderEntries("WORST", anchor, result.Worst)
}

func renderEntries(title, anchor string, entries []surprise.Entry) {
	fmt.Printf("\n%s\n", title)
	if len(entries) == 0 {
		fmt.Println("  (no eligible tickers)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "TICKER\tSECTOR\tL2\t%s (bn)\tQoQ\tYoY\tSCORE\n", anchor)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Ticker,
			e.Sector,
			e.L2,
			formatBillions(e.Values[anchor]),
			formatPercent(e.QoQ[anchor]),
			formatPercent(e.YoY[anchor]),
			formatScore(e.Combined),
		)
	}
	w.Flush()
}
