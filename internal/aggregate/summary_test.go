package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
	"github.com/minhvo/earnscope/internal/period"
)

func fv(v float64) *float64 {
	return &v
}

func factRow(ticker, p, keycode string, value *float64, sector, l1, l2 string) contracts.FactRow {
	return contracts.FactRow{
		Ticker:  ticker,
		Period:  p,
		Keycode: keycode,
		Value:   value,
		Sector:  sector,
		L1:      l1,
		L2:      l2,
	}
}

func techRow(ticker, p, keycode string, value *float64) contracts.FactRow {
	return factRow(ticker, p, keycode, value, "Tech", "Tech", "Software")
}

func techAssignment(ticker string) contracts.SectorAssignment {
	return contracts.SectorAssignment{Ticker: ticker, Sector: "Tech", L1: "Tech", L2: "Software"}
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name    string
		current *float64
		base    *float64
		want    *float64
	}{
		{name: "positive growth", current: fv(100), base: fv(80), want: fv(0.25)},
		{name: "doubling", current: fv(100), base: fv(50), want: fv(1.0)},
		{name: "decline", current: fv(50), base: fv(100), want: fv(-0.5)},
		{name: "negative base", current: fv(-50), base: fv(-100), want: fv(-0.5)},
		{name: "nil base", current: fv(100), base: nil, want: nil},
		{name: "zero base", current: fv(100), base: fv(0), want: nil},
		{name: "nil current", current: nil, base: fv(80), want: nil},
		{name: "both nil", current: nil, base: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Growth(tt.current, tt.base)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-12)
		})
	}
}

func TestNullSum(t *testing.T) {
	assert.Nil(t, nullSum(nil))
	assert.Nil(t, nullSum([]*float64{nil, nil}))

	got := nullSum([]*float64{fv(1), nil, fv(2)})
	require.NotNil(t, got)
	assert.Equal(t, 3.0, *got)

	// A single zero is a value: sum is 0, not absent
	got = nullSum([]*float64{fv(0), nil})
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("L1")
	require.NoError(t, err)
	assert.Equal(t, LevelL1, l)

	l, err = ParseLevel("L2")
	require.NoError(t, err)
	assert.Equal(t, LevelL2, l)

	_, err = ParseLevel("L3")
	assert.Error(t, err)
}

// The canonical single-ticker scenario: Revenue 100 in 2023Q1, 80 in
// 2022Q4, 50 in 2022Q1.
func TestSummarizeBySectorSingleTicker(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2023Q1", "Net_Revenue", fv(100)),
		techRow("ABC", "2022Q4", "Net_Revenue", fv(80)),
		techRow("ABC", "2022Q1", "Net_Revenue", fv(50)),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC")}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ReleasedCount)
	assert.Equal(t, 1, summary.TotalCount)
	require.Len(t, summary.Rows, 2, "Total row plus one sector")

	total := summary.Rows[0]
	assert.Equal(t, TotalLabel, total.Sector)

	tech := summary.Rows[1]
	assert.Equal(t, "Tech", tech.Sector)
	assert.Equal(t, 1, tech.ReleasedCompanies)
	assert.Equal(t, 1, tech.TotalCompanies)
	require.NotNil(t, tech.CoveragePct)
	assert.Equal(t, 1.0, *tech.CoveragePct)

	require.NotNil(t, tech.Metrics["Revenue"])
	assert.Equal(t, 100.0, *tech.Metrics["Revenue"])
	require.NotNil(t, tech.QoQ["Revenue"])
	assert.InDelta(t, 0.25, *tech.QoQ["Revenue"], 1e-12)
	require.NotNil(t, tech.YoY["Revenue"])
	assert.InDelta(t, 1.0, *tech.YoY["Revenue"], 1e-12)

	// Single-ticker universe: the Total row carries identical values
	assert.Equal(t, *tech.Metrics["Revenue"], *total.Metrics["Revenue"])
	assert.InDelta(t, *tech.QoQ["Revenue"], *total.QoQ["Revenue"], 1e-12)
	assert.InDelta(t, *tech.YoY["Revenue"], *total.YoY["Revenue"], 1e-12)

	// Untracked metrics stay absent end to end
	assert.Nil(t, tech.Metrics["EBITDA"])
	assert.Nil(t, tech.QoQ["EBITDA"])
}

func TestSummarizeBySectorEmptyPeriod(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2022Q4", "Net_Revenue", fv(80)),
	})
	sectorMap := []contracts.SectorAssignment{
		techAssignment("ABC"),
		{Ticker: "DEF", Sector: "Banks", L1: "Financials", L2: "Banks"},
	}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	assert.Empty(t, summary.Rows)
	assert.Equal(t, 0, summary.ReleasedCount)
	assert.Equal(t, 2, summary.TotalCount, "universe count survives an empty period")
}

func TestSummarizeBySectorInvalidPeriod(t *testing.T) {
	_, err := SummarizeBySector(nil, nil, period.Quarterly, "not-a-period", LevelL1)
	assert.True(t, errors.Is(err, period.ErrInvalidPeriodFormat))
}

// A ticker whose metrics are all nil in the period is not released: it
// joins neither the counts nor the sums.
func TestSummarizeBySectorAllNullTickerExcluded(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2023Q1", "Net_Revenue", fv(100)),
		techRow("GHO", "2023Q1", "Net_Revenue", nil),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC"), techAssignment("GHO")}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	tech := summary.Rows[1]
	assert.Equal(t, 1, tech.ReleasedCompanies)
	assert.Equal(t, 2, tech.TotalCompanies)
	require.NotNil(t, tech.CoveragePct)
	assert.InDelta(t, 0.5, *tech.CoveragePct, 1e-12)
	assert.Equal(t, 1, summary.ReleasedCount)
	assert.Equal(t, 2, summary.TotalCount)
}

// The cohort-consistency rule: a ticker that reported last quarter but not
// this quarter must not inflate the comparison baseline.
func TestSummarizeBySectorCohortRestriction(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2023Q1", "Net_Revenue", fv(100)),
		techRow("ABC", "2022Q4", "Net_Revenue", fv(80)),
		// LAG reported in 2022Q4 only; it must be ignored in the baseline
		techRow("LAG", "2022Q4", "Net_Revenue", fv(1000)),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC"), techAssignment("LAG")}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	tech := summary.Rows[1]
	require.NotNil(t, tech.QoQ["Revenue"])
	assert.InDelta(t, 0.25, *tech.QoQ["Revenue"], 1e-12, "baseline is 80, not 1080")
}

func TestSummarizeBySectorZeroBaselineGrowthIsNil(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2023Q1", "Net_Revenue", fv(100)),
		techRow("ABC", "2022Q4", "Net_Revenue", fv(0)),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC")}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	tech := summary.Rows[1]
	assert.Nil(t, tech.QoQ["Revenue"], "division by zero baseline must yield absent, not Inf")
}

// Comparison shifted past the 1900 floor: both baselines are absent and
// growth columns are nil across the board.
func TestSummarizeBySectorNoComparisonBeforeFloor(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "1900Q1", "Net_Revenue", fv(100)),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC")}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "1900Q1", LevelL1)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	tech := summary.Rows[1]
	require.NotNil(t, tech.Metrics["Revenue"])
	assert.Nil(t, tech.QoQ["Revenue"])
	assert.Nil(t, tech.YoY["Revenue"])
}

func TestSummarizeBySectorLevels(t *testing.T) {
	rows := []contracts.FactRow{
		factRow("ABC", "2023Q1", "Net_Revenue", fv(100), "Tech", "Tech", "Software"),
		factRow("HWR", "2023Q1", "Net_Revenue", fv(60), "Tech", "Tech", "Hardware"),
	}
	records := facts.Pivot(rows)
	sectorMap := []contracts.SectorAssignment{
		{Ticker: "ABC", Sector: "Tech", L1: "Tech", L2: "Software"},
		{Ticker: "HWR", Sector: "Tech", L1: "Tech", L2: "Hardware"},
	}

	l1, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)
	require.Len(t, l1.Rows, 2, "one merged L1 sector plus Total")
	require.NotNil(t, l1.Rows[1].Metrics["Revenue"])
	assert.Equal(t, 160.0, *l1.Rows[1].Metrics["Revenue"])

	l2, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL2)
	require.NoError(t, err)
	require.Len(t, l2.Rows, 3, "two L2 sectors plus Total")
	// Sector rows sorted alphabetically after the Total row
	assert.Equal(t, TotalLabel, l2.Rows[0].Sector)
	assert.Equal(t, "Hardware", l2.Rows[1].Sector)
	assert.Equal(t, "Software", l2.Rows[2].Sector)
}

// A sector where every released value for a metric is nil must sum to
// nil, not zero.
func TestSectorSumNullNotZero(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2023Q1", "Net_Revenue", fv(100)),
		// EBITDA never reported by anyone in Tech
		techRow("ABC", "2023Q1", "EBITDA", nil),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC")}

	summary, err := SummarizeBySector(records, sectorMap, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	tech := summary.Rows[1]
	assert.Nil(t, tech.Metrics["EBITDA"])

	total := summary.Rows[0]
	assert.Nil(t, total.Metrics["EBITDA"])
}

func TestCoverageZeroUniverse(t *testing.T) {
	assert.Nil(t, coverage(0, 0))

	got := coverage(1, 4)
	require.NotNil(t, got)
	assert.InDelta(t, 0.25, *got, 1e-12)
}

// Sector present in the fact rows but missing from the sector map: totals
// degrade to zero and coverage to nil rather than dividing by zero.
func TestSummarizeBySectorUnmappedSector(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		factRow("ZZZ", "2023Q1", "Net_Revenue", fv(10), "Misc", "Misc", "Misc"),
	})

	summary, err := SummarizeBySector(records, nil, period.Quarterly, "2023Q1", LevelL1)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	misc := summary.Rows[1]
	assert.Equal(t, 0, misc.TotalCompanies)
	assert.Nil(t, misc.CoveragePct)
}

func TestSummarizeAnnualYoYEqualsQoQ(t *testing.T) {
	records := facts.Pivot([]contracts.FactRow{
		techRow("ABC", "2023", "Net_Revenue", fv(120)),
		techRow("ABC", "2022", "Net_Revenue", fv(100)),
	})
	sectorMap := []contracts.SectorAssignment{techAssignment("ABC")}

	summary, err := SummarizeBySector(records, sectorMap, period.Annual, "2023", LevelL1)
	require.NoError(t, err)

	tech := summary.Rows[1]
	require.NotNil(t, tech.QoQ["Revenue"])
	require.NotNil(t, tech.YoY["Revenue"])
	assert.InDelta(t, 0.2, *tech.QoQ["Revenue"], 1e-12)
	assert.InDelta(t, *tech.QoQ["Revenue"], *tech.YoY["Revenue"], 1e-12)
}
