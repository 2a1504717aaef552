// Package store implements the data loaders over PostgreSQL: the sector
// map, the available reporting periods, and the long-format financial
// statement rows.
package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/period"
)

// Repository reads the earnings tables. It is the only place that issues
// SQL against them.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// tableFor maps a frequency to its statements table.
func tableFor(frequency period.Frequency) (string, error) {
	switch frequency {
	case period.Quarterly:
		return "fa_quarterly", nil
	case period.Annual:
		return "fa_annual", nil
	default:
		return "", fmt.Errorf("unknown frequency %q", frequency)
	}
}

// SectorMap returns the full ticker universe with its sector taxonomy.
func (r *Repository) SectorMap(ctx context.Context) ([]contracts.SectorAssignment, error) {
	query := `
		SELECT ticker, COALESCE(sector, ''), COALESCE(l1, ''), COALESCE(l2, '')
		FROM sector_map
		ORDER BY ticker
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sector map: %w", err)
	}
	defer rows.Close()

	assignments := make([]contracts.SectorAssignment, 0)
	for rows.Next() {
		var a contracts.SectorAssignment
		if err := rows.Scan(&a.Ticker, &a.Sector, &a.L1, &a.L2); err != nil {
			return nil, fmt.Errorf("scan sector assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sector map: %w", rows.Err())
	}

	return assignments, nil
}

// AvailablePeriods returns the distinct periods carrying at least one
// tracked metric, newest first. Malformed period values in the table are
// dropped during sorting rather than failing the whole listing.
func (r *Repository) AvailablePeriods(ctx context.Context, frequency period.Frequency) ([]string, error) {
	table, err := tableFor(frequency)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT period
		FROM %s
		WHERE keycode = ANY($1)
	`, table)

	rows, err := r.pool.Query(ctx, query, contracts.MetricKeycodes())
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	periods := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, strings.TrimSpace(p))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate periods: %w", rows.Err())
	}

	return period.Sort(periods, frequency, true), nil
}

// Financials returns fact rows for exactly the requested periods,
// inner-joined against the sector map so unmapped tickers never reach the
// core. Requesting no periods is a normal empty result. Period strings are
// validated up front: a malformed request fails fast instead of querying.
func (r *Repository) Financials(ctx context.Context, frequency period.Frequency, periods []string) ([]contracts.FactRow, error) {
	if len(periods) == 0 {
		return []contracts.FactRow{}, nil
	}
	for _, p := range periods {
		if _, err := period.Parse(p, frequency); err != nil {
			return nil, err
		}
	}

	table, err := tableFor(frequency)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			fa.ticker,
			fa.period,
			fa.keycode,
			fa.value::text,
			COALESCE(sm.sector, ''),
			COALESCE(sm.l1, ''),
			COALESCE(sm.l2, '')
		FROM %s AS fa
		INNER JOIN sector_map AS sm
			ON sm.ticker = fa.ticker
		WHERE fa.keycode = ANY($1)
		  AND fa.period = ANY($2)
	`, table)

	rows, err := r.pool.Query(ctx, query, contracts.MetricKeycodes(), periods)
	if err != nil {
		return nil, fmt.Errorf("query financials: %w", err)
	}
	defer rows.Close()

	facts := make([]contracts.FactRow, 0)
	for rows.Next() {
		var row contracts.FactRow
		var raw *string
		if err := rows.Scan(&row.Ticker, &row.Period, &row.Keycode, &raw, &row.Sector, &row.L1, &row.L2); err != nil {
			return nil, fmt.Errorf("scan fact row: %w", err)
		}
		row.Value = coerceValue(raw)
		facts = append(facts, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate financials: %w", rows.Err())
	}

	return facts, nil
}

// coerceValue converts a raw stored value into a number. NULLs, blanks,
// unparseable strings and non-finite values all become absent rather than
// failing the fetch.
func coerceValue(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	// ParseFloat accepts "Inf" and "NaN" spellings
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
