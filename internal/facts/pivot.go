// Package facts reshapes long-format statement rows into one record per
// ticker and period, with a column per tracked metric.
package facts

import (
	"github.com/minhvo/earnscope/internal/contracts"
)

// Record is a pivoted row: one (ticker, period) pair with its sector path
// and every tracked metric. Metrics absent from the source are nil, never
// zero.
type Record struct {
	Ticker string
	Period string
	Sector string
	L1     string
	L2     string
	Values map[string]*float64
}

// Value returns the named metric for the record, nil when missing.
func (r Record) Value(metric string) *float64 {
	return r.Values[metric]
}

// HasAnyValue reports whether at least one tracked metric is non-nil,
// i.e. the ticker has actually released figures for the period.
func (r Record) HasAnyValue() bool {
	for _, label := range contracts.MetricLabels() {
		if r.Values[label] != nil {
			return true
		}
	}
	return false
}

type pivotKey struct {
	ticker string
	period string
	sector string
	l1     string
	l2     string
}

// Pivot groups fact rows by (ticker, period, sector path) and spreads
// keycodes into metric columns. First-seen wins on duplicate keycodes
// within a key; keycodes outside the tracked metric set are ignored.
// Output order follows first appearance in the input, so identical input
// always yields identical output.
func Pivot(rows []contracts.FactRow) []Record {
	records := make([]Record, 0)
	index := make(map[pivotKey]int)

	for _, row := range rows {
		key := pivotKey{
			ticker: row.Ticker,
			period: row.Period,
			sector: row.Sector,
			l1:     row.L1,
			l2:     row.L2,
		}

		i, ok := index[key]
		if !ok {
			i = len(records)
			index[key] = i
			records = append(records, Record{
				Ticker: row.Ticker,
				Period: row.Period,
				Sector: row.Sector,
				L1:     row.L1,
				L2:     row.L2,
				Values: emptyValues(),
			})
		}

		label, tracked := contracts.LabelForKeycode(row.Keycode)
		if !tracked {
			continue
		}
		if records[i].Values[label] != nil {
			// first non-nil value wins
			continue
		}
		if row.Value != nil {
			v := *row.Value
			records[i].Values[label] = &v
		}
	}

	return records
}

// ForPeriod filters pivoted records down to a single period. An empty
// period yields an empty slice: the caller has no comparison baseline.
func ForPeriod(records []Record, period string) []Record {
	if period == "" {
		return nil
	}
	out := make([]Record, 0)
	for _, r := range records {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

func emptyValues() map[string]*float64 {
	values := make(map[string]*float64, len(contracts.MetricLabels()))
	for _, label := range contracts.MetricLabels() {
		values[label] = nil
	}
	return values
}
