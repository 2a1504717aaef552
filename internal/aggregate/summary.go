package aggregate

import (
	"encoding/json"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
	"github.com/minhvo/earnscope/internal/period"
)

// TotalLabel names the synthetic population-wide row prepended to the
// sector table.
const TotalLabel = "Total"

// SummaryRow is one sector's aggregate: released-cohort metric sums plus
// growth against the previous and year-ago periods. Metric sums and growth
// values are nil when no data supports them.
type SummaryRow struct {
	Sector            string
	ReleasedCompanies int
	TotalCompanies    int
	CoveragePct       *float64
	Metrics           map[string]*float64 // metric label -> cohort sum
	QoQ               map[string]*float64 // metric label -> growth vs previous
	YoY               map[string]*float64 // metric label -> growth vs year-ago
}

// MarshalJSON flattens the row into the wide column layout consumers
// expect: sector, counts, coverage, then {metric}, {metric}_QoQ and
// {metric}_YoY per tracked metric.
func (r SummaryRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, 4+3*len(r.Metrics))
	flat["sector"] = r.Sector
	flat["released_companies"] = r.ReleasedCompanies
	flat["total_companies"] = r.TotalCompanies
	flat["coverage_pct"] = r.CoveragePct
	for _, label := range contracts.MetricLabels() {
		flat[label] = r.Metrics[label]
		flat[label+"_QoQ"] = r.QoQ[label]
		flat[label+"_YoY"] = r.YoY[label]
	}
	return json.Marshal(flat)
}

// SectorSummary is the full sector table for one period, Total row first,
// plus headline counts for the selected period.
type SectorSummary struct {
	Level         Level              `json:"level"`
	Comparisons   period.Comparisons `json:"comparisons"`
	Rows          []SummaryRow       `json:"rows"`
	ReleasedCount int                `json:"released_count"`
	TotalCount    int                `json:"total_count"`
}

// SummarizeBySector aggregates pivoted records for the selected period by
// sector at the requested level. Growth uses only the tickers released in
// the current period (the same-cohort rule), so sector trends are never
// distorted by partial reporting in the comparison periods. An empty
// current period degrades to an empty table with universe counts intact.
func SummarizeBySector(
	records []facts.Record,
	sectorMap []contracts.SectorAssignment,
	frequency period.Frequency,
	periodValue string,
	level Level,
) (*SectorSummary, error) {
	comparisons, err := period.ResolveComparisons(frequency, periodValue)
	if err != nil {
		return nil, err
	}

	totalCounts, universeSize := universeCounts(sectorMap, level)

	summary := &SectorSummary{
		Level:       level,
		Comparisons: comparisons,
		Rows:        make([]SummaryRow, 0),
		TotalCount:  universeSize,
	}

	released, cohort := releasedCohort(records, periodValue)
	if len(released) == 0 {
		return summary, nil
	}
	summary.ReleasedCount = len(cohort)

	current := newSectorSums()
	releasedPerSector := make(map[string]map[string]struct{})
	for _, r := range released {
		sector := sectorOf(r, level)
		current.add(sector, r)
		if releasedPerSector[sector] == nil {
			releasedPerSector[sector] = make(map[string]struct{})
		}
		releasedPerSector[sector][r.Ticker] = struct{}{}
	}

	previous := aggregatePeriod(records, comparisons.Previous, level, cohort)
	yearAgo := aggregatePeriod(records, comparisons.YoY, level, cohort)

	for _, sector := range current.sectors() {
		row := SummaryRow{
			Sector:            sector,
			ReleasedCompanies: len(releasedPerSector[sector]),
			TotalCompanies:    totalCounts[sector],
			Metrics:           make(map[string]*float64),
			QoQ:               make(map[string]*float64),
			YoY:               make(map[string]*float64),
		}
		row.CoveragePct = coverage(row.ReleasedCompanies, row.TotalCompanies)

		for _, label := range contracts.MetricLabels() {
			curr := current.value(sector, label)
			row.Metrics[label] = curr
			row.QoQ[label] = Growth(curr, previous.value(sector, label))
			row.YoY[label] = Growth(curr, yearAgo.value(sector, label))
		}

		summary.Rows = append(summary.Rows, row)
	}

	totalRow := SummaryRow{
		Sector:            TotalLabel,
		ReleasedCompanies: len(cohort),
		TotalCompanies:    universeSize,
		CoveragePct:       coverage(len(cohort), universeSize),
		Metrics:           make(map[string]*float64),
		QoQ:               make(map[string]*float64),
		YoY:               make(map[string]*float64),
	}
	for _, label := range contracts.MetricLabels() {
		curr := current.total(label)
		totalRow.Metrics[label] = curr
		totalRow.QoQ[label] = Growth(curr, previous.total(label))
		totalRow.YoY[label] = Growth(curr, yearAgo.total(label))
	}

	summary.Rows = append([]SummaryRow{totalRow}, summary.Rows...)
	return summary, nil
}

// coverage is released/total, nil when the universe count is zero.
func coverage(released, total int) *float64 {
	if total == 0 {
		return nil
	}
	pct := float64(released) / float64(total)
	return &pct
}
