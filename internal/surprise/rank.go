// Package surprise ranks individual tickers by combined growth surprise:
// percentile ranks of QoQ and YoY growth averaged into one score.
package surprise

import "sort"

// percentileRanks assigns fractional (average) ranks to the non-nil
// values, scaled to (0, 1]. Ranking is ascending: the highest growth gets
// the rank closest to 1. Ties share the average of the ranks they span.
// Nil inputs yield nil ranks and do not count toward the population.
func percentileRanks(values []*float64) []*float64 {
	type indexed struct {
		value float64
		pos   int
	}

	present := make([]indexed, 0, len(values))
	for i, v := range values {
		if v != nil {
			present = append(present, indexed{value: *v, pos: i})
		}
	}

	ranks := make([]*float64, len(values))
	n := len(present)
	if n == 0 {
		return ranks
	}

	sort.SliceStable(present, func(i, j int) bool {
		return present[i].value < present[j].value
	})

	// Average the 1-based ranks across runs of equal values, then scale
	// by the population size.
	for i := 0; i < n; {
		j := i
		for j < n && present[j].value == present[i].value {
			j++
		}
		avg := float64(i+j+1) / 2.0 // mean of ranks i+1 .. j
		pct := avg / float64(n)
		for k := i; k < j; k++ {
			r := pct
			ranks[present[k].pos] = &r
		}
		i = j
	}

	return ranks
}

// meanOfAvailable averages the non-nil values, nil when all are nil. A
// ticker missing one growth axis is still scored on the others.
func meanOfAvailable(values []*float64) *float64 {
	var sum float64
	count := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}
