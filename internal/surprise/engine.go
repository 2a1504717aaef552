package surprise

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/minhvo/earnscope/internal/aggregate"
	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
	"github.com/minhvo/earnscope/internal/period"
)

// AllMetrics selects combined-mode ranking across every tracked metric.
const AllMetrics = "all"

// Entry is one ranked ticker. Values, growth and rank maps are keyed by
// metric label; single-metric mode carries exactly one key.
type Entry struct {
	Ticker   string              `json:"ticker"`
	Sector   string              `json:"sector"`
	L2       string              `json:"l2"`
	Values   map[string]*float64 `json:"values"`
	QoQ      map[string]*float64 `json:"qoq"`
	YoY      map[string]*float64 `json:"yoy"`
	QoQRank  map[string]*float64 `json:"qoq_rank"`
	YoYRank  map[string]*float64 `json:"yoy_rank"`
	Combined *float64            `json:"combined_score"`

	// base anchors the minimum-base filter and tie-breaking: the selected
	// metric in single-metric mode, Revenue in combined mode.
	base *float64
}

// Result holds the best and worst lists for one ranking request.
type Result struct {
	Metrics     []string           `json:"metrics"`
	Comparisons period.Comparisons `json:"comparisons"`
	MinBase     float64            `json:"min_base"`
	Best        []Entry            `json:"best"`
	Worst       []Entry            `json:"worst"`
}

// RankTickers ranks tickers on combined growth surprise for the selected
// period. metricOrAll names one tracked metric, or "all" for combined-mode
// ranking across every metric. Tickers below minBase in absolute current
// value, or with no computable score, are dropped. Both lists are
// truncated to topN after a stable sort, so ties resolve identically
// across runs.
func RankTickers(
	records []facts.Record,
	frequency period.Frequency,
	periodValue string,
	metricOrAll string,
	minBase float64,
	topN int,
) (*Result, error) {
	comparisons, err := period.ResolveComparisons(frequency, periodValue)
	if err != nil {
		return nil, err
	}

	var metricSet []string
	if strings.EqualFold(metricOrAll, AllMetrics) {
		metricSet = contracts.MetricLabels()
	} else if contracts.IsMetricLabel(metricOrAll) {
		metricSet = []string{metricOrAll}
	} else {
		return nil, fmt.Errorf("unknown metric %q", metricOrAll)
	}

	entries := buildEntries(records, comparisons, metricSet)
	scoreEntries(entries, metricSet)

	eligible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.base == nil || math.Abs(*e.base) < minBase {
			continue
		}
		if e.Combined == nil {
			continue
		}
		eligible = append(eligible, e)
	}

	result := &Result{
		Metrics:     metricSet,
		Comparisons: comparisons,
		MinBase:     minBase,
		Best:        orderAndTruncate(eligible, true, topN),
		Worst:       orderAndTruncate(eligible, false, topN),
	}
	return result, nil
}

// buildEntries assembles one entry per ticker released in the current
// period, with the ticker's own prior and year-ago values as growth
// baselines. Growth uses the same division-safety rule as the sector
// aggregates.
func buildEntries(records []facts.Record, comparisons period.Comparisons, metricSet []string) []Entry {
	previous := valuesByTicker(records, comparisons.Previous)
	yearAgo := valuesByTicker(records, comparisons.YoY)

	entries := make([]Entry, 0)
	seen := make(map[string]struct{})
	for _, r := range facts.ForPeriod(records, comparisons.Current) {
		if _, dup := seen[r.Ticker]; dup {
			continue
		}
		seen[r.Ticker] = struct{}{}

		entry := Entry{
			Ticker:  r.Ticker,
			Sector:  r.Sector,
			L2:      r.L2,
			Values:  make(map[string]*float64, len(metricSet)),
			QoQ:     make(map[string]*float64, len(metricSet)),
			YoY:     make(map[string]*float64, len(metricSet)),
			QoQRank: make(map[string]*float64, len(metricSet)),
			YoYRank: make(map[string]*float64, len(metricSet)),
		}

		hasValue := false
		for _, label := range metricSet {
			curr := r.Value(label)
			entry.Values[label] = curr
			if curr != nil {
				hasValue = true
			}
			entry.QoQ[label] = aggregate.Growth(curr, lookup(previous, r.Ticker, label))
			entry.YoY[label] = aggregate.Growth(curr, lookup(yearAgo, r.Ticker, label))
		}
		if !hasValue {
			continue
		}

		entry.base = entry.Values[baseMetric(metricSet)]
		entries = append(entries, entry)
	}
	return entries
}

// scoreEntries percentile-ranks every growth axis independently across
// the ticker population and averages the available ranks per ticker.
func scoreEntries(entries []Entry, metricSet []string) {
	for _, label := range metricSet {
		qoq := make([]*float64, len(entries))
		yoy := make([]*float64, len(entries))
		for i := range entries {
			qoq[i] = entries[i].QoQ[label]
			yoy[i] = entries[i].YoY[label]
		}

		qoqRanks := percentileRanks(qoq)
		yoyRanks := percentileRanks(yoy)
		for i := range entries {
			entries[i].QoQRank[label] = qoqRanks[i]
			entries[i].YoYRank[label] = yoyRanks[i]
		}
	}

	for i := range entries {
		axes := make([]*float64, 0, 2*len(metricSet))
		for _, label := range metricSet {
			axes = append(axes, entries[i].QoQRank[label], entries[i].YoYRank[label])
		}
		entries[i].Combined = meanOfAvailable(axes)
	}
}

// orderAndTruncate stably sorts a copy of the entries: combined score
// (descending for the best list, ascending for the worst), then absolute
// base descending, then raw base descending.
func orderAndTruncate(entries []Entry, bestFirst bool, topN int) []Entry {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if *a.Combined != *b.Combined {
			if bestFirst {
				return *a.Combined > *b.Combined
			}
			return *a.Combined < *b.Combined
		}
		if math.Abs(*a.base) != math.Abs(*b.base) {
			return math.Abs(*a.base) > math.Abs(*b.base)
		}
		return *a.base > *b.base
	})

	if topN >= 0 && len(ordered) > topN {
		ordered = ordered[:topN]
	}
	return ordered
}

// valuesByTicker indexes one period's records by ticker. The first record
// per ticker wins, matching the pivot's duplicate rule.
func valuesByTicker(records []facts.Record, periodValue string) map[string]facts.Record {
	out := make(map[string]facts.Record)
	for _, r := range facts.ForPeriod(records, periodValue) {
		if _, ok := out[r.Ticker]; ok {
			continue
		}
		out[r.Ticker] = r
	}
	return out
}

func lookup(index map[string]facts.Record, ticker, label string) *float64 {
	r, ok := index[ticker]
	if !ok {
		return nil
	}
	return r.Value(label)
}

// baseMetric picks the filter anchor: the metric itself in single-metric
// mode, Revenue when ranking across all metrics.
func baseMetric(metricSet []string) string {
	if len(metricSet) == 1 {
		return metricSet[0]
	}
	return contracts.BaseMetric()
}
