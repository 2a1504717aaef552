package contracts

// Metric pairs the display label used in result tables with the keycode
// used in the financial statements tables.
type Metric struct {
	Label   string
	Keycode string
}

// The tracked income statement lines. Order matters: result tables list
// metrics in this order, and Revenue serves as the ranking base metric.
var metrics = []Metric{
	{Label: "Revenue", Keycode: "Net_Revenue"},
	{Label: "Gross Profit", Keycode: "Gross_Profit"},
	{Label: "EBITDA", Keycode: "EBITDA"},
	{Label: "EBIT", Keycode: "EBIT"},
	{Label: "NPATMI", Keycode: "NPATMI"},
}

// Metrics returns the tracked metric set.
func Metrics() []Metric {
	out := make([]Metric, len(metrics))
	copy(out, metrics)
	return out
}

// MetricLabels returns the display labels in configured order.
func MetricLabels() []string {
	labels := make([]string, len(metrics))
	for i, m := range metrics {
		labels[i] = m.Label
	}
	return labels
}

// MetricKeycodes returns the statement keycodes in configured order.
func MetricKeycodes() []string {
	codes := make([]string, len(metrics))
	for i, m := range metrics {
		codes[i] = m.Keycode
	}
	return codes
}

// LabelForKeycode maps a statement keycode to its display label.
// The second return is false for keycodes outside the tracked set.
func LabelForKeycode(keycode string) (string, bool) {
	for _, m := range metrics {
		if m.Keycode == keycode {
			return m.Label, true
		}
	}
	return "", false
}

// IsMetricLabel reports whether label names a tracked metric.
func IsMetricLabel(label string) bool {
	for _, m := range metrics {
		if m.Label == label {
			return true
		}
	}
	return false
}

// BaseMetric is the metric whose current value anchors the minimum-base
// filter when ranking across all metrics.
func BaseMetric() string {
	return metrics[0].Label
}
