package period

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Frequency selects the reporting calendar for period strings.
type Frequency string

const (
	Quarterly Frequency = "Quarterly"
	Annual    Frequency = "Annual"
)

// Periods before this year are treated as "no earlier data" rather than
// valid comparison baselines.
const minYear = 1900

// ErrInvalidPeriodFormat is returned when a period string does not match
// its frequency's exact pattern.
var ErrInvalidPeriodFormat = errors.New("invalid period format")

var quarterPattern = regexp.MustCompile(`^(\d{4})Q([1-4])$`)
var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Frequencies returns the supported frequencies in display order.
func Frequencies() []Frequency {
	return []Frequency{Quarterly, Annual}
}

// ParseFrequency validates a frequency string.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Quarterly:
		return Quarterly, nil
	case Annual:
		return Annual, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// Period is a parsed calendar token. Quarter is 0 for annual periods so
// that tuple ordering works within a single frequency.
type Period struct {
	Year    int
	Quarter int
}

// Parse validates and decomposes a period string for the given frequency.
func Parse(value string, frequency Frequency) (Period, error) {
	switch frequency {
	case Quarterly:
		m := quarterPattern.FindStringSubmatch(value)
		if m == nil {
			return Period{}, fmt.Errorf("%w: %q is not a quarter (want YYYYQ1..YYYYQ4)", ErrInvalidPeriodFormat, value)
		}
		year, _ := strconv.Atoi(m[1])
		quarter, _ := strconv.Atoi(m[2])
		return Period{Year: year, Quarter: quarter}, nil
	case Annual:
		if !yearPattern.MatchString(value) {
			return Period{}, fmt.Errorf("%w: %q is not a year (want YYYY)", ErrInvalidPeriodFormat, value)
		}
		year, _ := strconv.Atoi(value)
		return Period{Year: year}, nil
	default:
		return Period{}, fmt.Errorf("unknown frequency %q", frequency)
	}
}

// Format renders a Period back into its string form.
func (p Period) Format(frequency Frequency) string {
	if frequency == Quarterly {
		return fmt.Sprintf("%04dQ%d", p.Year, p.Quarter)
	}
	return fmt.Sprintf("%04d", p.Year)
}

// Shift moves a period back by offset steps in its own calendar. Quarter
// arithmetic borrows and carries across year boundaries. The second return
// is false when the shifted period would fall before year 1900, meaning no
// earlier data exists; that is an expected absence, not an error.
func Shift(value string, offset int, frequency Frequency) (string, bool, error) {
	p, err := Parse(value, frequency)
	if err != nil {
		return "", false, err
	}

	if frequency == Quarterly {
		quarter := p.Quarter - offset
		year := p.Year
		for quarter <= 0 {
			quarter += 4
			year--
			if year < minYear {
				return "", false, nil
			}
		}
		for quarter > 4 {
			quarter -= 4
			year++
		}
		return Period{Year: year, Quarter: quarter}.Format(frequency), true, nil
	}

	year := p.Year - offset
	if year < minYear {
		return "", false, nil
	}
	return Period{Year: year}.Format(frequency), true, nil
}

// Sort orders period strings chronologically, newest first by default.
// Strings that fail to parse for the frequency are dropped; the store
// validates periods at fetch time so this only defends against bad rows.
func Sort(periods []string, frequency Frequency, descending bool) []string {
	type keyed struct {
		value string
		key   Period
	}

	parsed := make([]keyed, 0, len(periods))
	for _, value := range periods {
		p, err := Parse(value, frequency)
		if err != nil {
			continue
		}
		parsed = append(parsed, keyed{value: value, key: p})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		a, b := parsed[i].key, parsed[j].key
		if descending {
			a, b = b, a
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Quarter < b.Quarter
	})

	out := make([]string, len(parsed))
	for i, k := range parsed {
		out[i] = k.value
	}
	return out
}
