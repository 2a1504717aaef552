package handlers

import (
	"errors"
	"net/http"

	"github.com/minhvo/earnscope/internal/aggregate"
	"github.com/minhvo/earnscope/internal/period"
)

// GetSummary returns the sector aggregation table for one period: cohort
// metric sums with growth against the previous and year-ago periods.
// GET /api/summary?frequency=Quarterly&period=2023Q1&level=L1
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	frequency, err := period.ParseFrequency(queryOr(r, "frequency", string(period.Quarterly)))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	level, err := aggregate.ParseLevel(queryOr(r, "level", string(aggregate.LevelL1)))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	selected, err := h.resolvePeriod(ctx, frequency, r.URL.Query().Get("period"))
	if err != nil {
		h.respondPeriodError(w, err)
		return
	}

	comparisons, err := period.ResolveComparisons(frequency, selected)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.loadRecords(ctx, frequency, comparisons)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"frequency": frequency,
			"period":    selected,
		}).Error("Failed to load financials")
		respondError(w, http.StatusInternalServerError, "Failed to load financials")
		return
	}

	sectorMap, err := h.source.SectorMap(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load sector map")
		respondError(w, http.StatusInternalServerError, "Failed to load sector map")
		return
	}

	summary, err := aggregate.SummarizeBySector(records, sectorMap, frequency, selected, level)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"frequency": frequency,
			"period":    selected,
			"summary":   summary,
		},
	})
}

// respondPeriodError maps period resolution failures onto HTTP statuses:
// malformed input is the client's fault, an empty period table is not.
func (h *Handler) respondPeriodError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, period.ErrInvalidPeriodFormat):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errNoPeriods):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("Failed to resolve period")
		respondError(w, http.StatusInternalServerError, "Failed to resolve period")
	}
}
