// Package aggregate sums released-cohort metrics by sector and computes
// quarter-over-quarter and year-over-year growth against comparison
// periods restricted to the same ticker cohort.
package aggregate

import "math"

// Growth returns (current - base) / base as a signed fraction. The result
// is nil when base is nil or exactly zero, when current is nil, or when
// the division produces a non-finite value. Division never panics and
// NaN/Inf never reach the caller.
func Growth(current, base *float64) *float64 {
	if current == nil || base == nil || *base == 0 {
		return nil
	}
	g := (*current - *base) / *base
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return nil
	}
	return &g
}

// nullSum adds the non-nil values; it returns nil when every value is nil.
// This mirrors SQL SUM with a minimum non-null count of one: a cohort
// where nobody reported a metric sums to absent, not zero.
func nullSum(values []*float64) *float64 {
	var sum float64
	seen := false
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		seen = true
	}
	if !seen {
		return nil
	}
	return &sum
}

// addInto accumulates v into the (sum, seen) pair used by the per-sector
// accumulation loops.
func addInto(sum *float64, v *float64) *float64 {
	if v == nil {
		return sum
	}
	if sum == nil {
		s := *v
		return &s
	}
	s := *sum + *v
	return &s
}
