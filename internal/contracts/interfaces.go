package contracts

import (
	"context"

	"github.com/minhvo/earnscope/internal/period"
)

// DataSource is the loader contract the core computes from. Implementations
// must be idempotent per argument set; callers may memoize results within a
// bounded freshness window. An empty result is a normal steady state, not
// an error.
type DataSource interface {
	// SectorMap returns the full ticker universe, one entry per ticker.
	SectorMap(ctx context.Context) ([]SectorAssignment, error)

	// AvailablePeriods returns the distinct periods for which at least one
	// tracked metric exists, newest first.
	AvailablePeriods(ctx context.Context, frequency period.Frequency) ([]string, error)

	// Financials returns long-format fact rows for exactly the requested
	// periods, inner-joined against the sector map.
	Financials(ctx context.Context, frequency period.Frequency, periods []string) ([]FactRow, error)
}
