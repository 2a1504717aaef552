package commands

import "fmt"

// Statement values are stored in VND; tables display billions.
const billion = 1e9

// formatBillions renders a statement value in billions, "-" when absent.
func formatBillions(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v/billion)
}

// formatPercent renders a growth ratio as a signed percentage.
func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v*100)
}

// formatCoverage renders a 0..1 coverage fraction as a plain percentage.
func formatCoverage(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

// formatScore renders a combined percentile score.
func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}
