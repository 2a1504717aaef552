package aggregate

import (
	"fmt"
	"sort"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
)

// Level selects the sector taxonomy depth used for grouping.
type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
)

// ParseLevel validates a sector level string.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelL1:
		return LevelL1, nil
	case LevelL2:
		return LevelL2, nil
	default:
		return "", fmt.Errorf("unknown sector level %q (want L1 or L2)", s)
	}
}

func sectorOf(r facts.Record, level Level) string {
	if level == LevelL2 {
		return r.L2
	}
	return r.L1
}

func sectorOfAssignment(a contracts.SectorAssignment, level Level) string {
	if level == LevelL2 {
		return a.L2
	}
	return a.L1
}

// sectorSums holds one period's per-sector metric sums.
type sectorSums struct {
	sums map[string]map[string]*float64 // sector -> metric label -> sum
}

func newSectorSums() sectorSums {
	return sectorSums{sums: make(map[string]map[string]*float64)}
}

func (s sectorSums) add(sector string, r facts.Record) {
	row, ok := s.sums[sector]
	if !ok {
		row = make(map[string]*float64, len(contracts.MetricLabels()))
		s.sums[sector] = row
	}
	for _, label := range contracts.MetricLabels() {
		row[label] = addInto(row[label], r.Value(label))
	}
}

// value returns the sector's metric sum, nil when the sector or metric is
// absent. This is the re-indexing rule of the growth step: sectors missing
// from a comparison period simply contribute no baseline.
func (s sectorSums) value(sector, metric string) *float64 {
	row, ok := s.sums[sector]
	if !ok {
		return nil
	}
	return row[metric]
}

// sectors returns the sector labels present, sorted for determinism.
func (s sectorSums) sectors() []string {
	labels := make([]string, 0, len(s.sums))
	for label := range s.sums {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// total sums a metric across every sector, nil when absent everywhere.
func (s sectorSums) total(metric string) *float64 {
	values := make([]*float64, 0, len(s.sums))
	for _, row := range s.sums {
		values = append(values, row[metric])
	}
	return nullSum(values)
}

// aggregatePeriod sums metrics per sector over the records of one period,
// restricted to the cohort tickers. An empty period (comparison shifted
// past the 1900 floor) or an empty cohort yields empty sums with the full
// metric schema still addressable, so callers treat "no comparison
// available" identically to "no overlap".
func aggregatePeriod(records []facts.Record, periodValue string, level Level, cohort map[string]struct{}) sectorSums {
	sums := newSectorSums()
	if periodValue == "" {
		return sums
	}
	for _, r := range facts.ForPeriod(records, periodValue) {
		if _, ok := cohort[r.Ticker]; !ok {
			continue
		}
		sums.add(sectorOf(r, level), r)
	}
	return sums
}

// releasedCohort selects the records of the target period whose tickers
// have released at least one metric value, and returns them along with the
// distinct ticker set.
func releasedCohort(records []facts.Record, periodValue string) ([]facts.Record, map[string]struct{}) {
	released := make([]facts.Record, 0)
	tickers := make(map[string]struct{})
	for _, r := range facts.ForPeriod(records, periodValue) {
		if !r.HasAnyValue() {
			continue
		}
		released = append(released, r)
		tickers[r.Ticker] = struct{}{}
	}
	return released, tickers
}

// universeCounts counts distinct tickers per sector over the full sector
// map, independent of who reported. The second return is the distinct
// ticker count across the whole universe.
func universeCounts(sectorMap []contracts.SectorAssignment, level Level) (map[string]int, int) {
	perSector := make(map[string]map[string]struct{})
	all := make(map[string]struct{})
	for _, a := range sectorMap {
		sector := sectorOfAssignment(a, level)
		if perSector[sector] == nil {
			perSector[sector] = make(map[string]struct{})
		}
		perSector[sector][a.Ticker] = struct{}{}
		all[a.Ticker] = struct{}{}
	}

	counts := make(map[string]int, len(perSector))
	for sector, tickers := range perSector {
		counts[sector] = len(tickers)
	}
	return counts, len(all)
}
