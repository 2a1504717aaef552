package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minhvo/earnscope/internal/aggregate"
	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
	"github.com/minhvo/earnscope/internal/period"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Sector aggregation with QoQ/YoY growth",
	Long: `Aggregates the released cohort by sector for one period and prints
metric sums in billions with growth against the previous and year-ago
periods.

Example:
  go run ./cmd/earnscope summary
  go run ./cmd/earnscope summary --period 2023Q1 --level L2 --metric EBIT`,
	RunE: runSummary,
}

var (
	summaryFrequency string
	summaryPeriod    string
	summaryLevel     string
	summaryMetric    string
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryFrequency, "frequency", string(period.Quarterly), "reporting frequency (Quarterly|Annual)")
	summaryCmd.Flags().StringVar(&summaryPeriod, "period", "", "period to summarize, e.g. 2023Q1 (default latest)")
	summaryCmd.Flags().StringVar(&summaryLevel, "level", string(aggregate.LevelL1), "sector level (L1|L2)")
	summaryCmd.Flags().StringVar(&summaryMetric, "metric", contracts.BaseMetric(), "metric column to display")
}

func runSummary(cmd *cobra.Command, args []string) error {
	frequency, err := period.ParseFrequency(summaryFrequency)
	if err != nil {
		return err
	}
	level, err := aggregate.ParseLevel(summaryLevel)
	if err != nil {
		return err
	}
	if !contracts.IsMetricLabel(summaryMetric) {
		return fmt.Errorf("unknown metric %q", summaryMetric)
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()

	selected, err := rt.resolvePeriod(ctx, frequency, summaryPeriod)
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
	sectorMap, err := rt.source.SectorMap(ctx)
	if err != nil {
		return fmt.Errorf("load sector map: %w", err)
	}

	summary, err := aggregate.SummarizeBySector(facts.Pivot(rows), sectorMap, frequency, selected, level)
	if err != nil {
		return err
	}

	renderSummary(selected, summaryMetric, summary)
	return nil
}

func renderSummary(selected, metric string, summary *aggregate.SectorSummary) {
	fmt.Printf("Sector summary for %s (%s, %s)\n", selected, summary.Level, metric)
	if summary.Comparisons.Previous != "" {
		fmt.Printf("QoQ vs %s", summary.Comparisons.Previous)
		if summary.Comparisons.YoY != "" {
			fmt.Printf(", YoY vs %s", summary.Comparisons.YoY)
		}
		fmt.Println()
	}
	fmt.Printf("Released %d of %d companies\n\n", summary.ReleasedCount, summary.TotalCount)

	if len(summary.Rows) == 0 {
		fmt.Println("No companies released for this period.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SECTOR\tREL/TOT\tCOV\t%s (bn)\tQoQ\tYoY\n", metric)
	for _, row := range summary.Rows {
		fmt.Fprintf(w, "%s\t%d/%d\t%s\t%s\t%s\t%s\n",
			row.Sector,
			row.ReleasedCompanies, row.TotalCompanies,
			formatCoverage(row.CoveragePct),
			formatBillions(row.Metrics[metric]),
			formatPercent(row.QoQ[metric]),
			formatPercent(row.YoY[metric]),
		)
	}
	w.Flush()
}
