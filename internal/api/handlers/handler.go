// Package handlers implements the HTTP handlers for the earnings API.
package handlers

import (
	"context"
	"errors"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/facts"
	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/pkg/logger"
)

// Query parameter defaults. Base values are VND, so the minimum-base
// default is 200 billion.
const (
	defaultMinBase = 200e9
	defaultTopN    = 10
	maxTopN        = 50
)

var errNoPeriods = errors.New("no reporting periods available")

// Handler serves the earnings endpoints from a single data source.
type Handler struct {
	source contracts.DataSource
	logger *logger.Logger
}

// New creates a new handler
func New(source contracts.DataSource, log *logger.Logger) *Handler {
	return &Handler{
		source: source,
		logger: log,
	}
}

// resolvePeriod returns the requested period, or the latest available one
// when the request leaves it empty.
func (h *Handler) resolvePeriod(ctx context.Context, frequency period.Frequency, requested string) (string, error) {
	if requested != "" {
		if _, err := period.Parse(requested, frequency); err != nil {
			return "", err
		}
		return requested, nil
	}

	periods, err := h.source.AvailablePeriods(ctx, frequency)
	if err != nil {
		return "", err
	}
	if len(periods) == 0 {
		return "", errNoPeriods
	}
	return periods[0], nil
}

// loadRecords fetches the comparison triad and pivots it into per-ticker
// records.
func (h *Handler) loadRecords(ctx context.Context, frequency period.Frequency, comparisons period.Comparisons) ([]facts.Record, error) {
	rows, err := h.source.Financials(ctx, frequency, comparisons.FetchSet())
	if err != nil {
		return nil, err
	}
	return facts.Pivot(rows), nil
}
