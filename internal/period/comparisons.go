package period

// Comparisons holds the selected period and its comparison baselines.
// Previous and YoY are empty when the shift falls before year 1900.
type Comparisons struct {
	Current  string `json:"current"`
	Previous string `json:"previous,omitempty"`
	YoY      string `json:"yoy,omitempty"`
}

// Offsets per frequency. Annual data has no distinct "same quarter last
// year" concept, so its YoY baseline collapses to the previous year.
func offsets(frequency Frequency) (previous, yoy int) {
	if frequency == Quarterly {
		return 1, 4
	}
	return 1, 1
}

// ResolveComparisons derives the previous-period and year-ago baselines
// for a valid current period.
func ResolveComparisons(frequency Frequency, current string) (Comparisons, error) {
	if _, err := Parse(current, frequency); err != nil {
		return Comparisons{}, err
	}

	prevOffset, yoyOffset := offsets(frequency)

	cmp := Comparisons{Current: current}
	if prev, ok, err := Shift(current, prevOffset, frequency); err != nil {
		return Comparisons{}, err
	} else if ok {
		cmp.Previous = prev
	}
	if yoy, ok, err := Shift(current, yoyOffset, frequency); err != nil {
		return Comparisons{}, err
	} else if ok {
		cmp.YoY = yoy
	}

	return cmp, nil
}

// FetchSet lists the distinct periods needed to compute a summary for the
// comparison triad: current plus whichever baselines exist.
func (c Comparisons) FetchSet() []string {
	set := []string{c.Current}
	if c.Previous != "" && c.Previous != c.Current {
		set = append(set, c.Previous)
	}
	if c.YoY != "" && c.YoY != c.Current && c.YoY != c.Previous {
		set = append(set, c.YoY)
	}
	return set
}
