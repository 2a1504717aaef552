package handlers

import (
	"net/http"
	"strconv"

	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/internal/surprise"
)

// GetSurprises returns the best and worst growth-surprise tickers for one
// period.
// GET /api/surprises?frequency=Quarterly&period=2023Q1&metric=all&min_base=2e11&top_n=10
func (h *Handler) GetSurprises(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	frequency, err := period.ParseFrequency(queryOr(r, "frequency", string(period.Quarterly)))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	metric := queryOr(r, "metric", surprise.AllMetrics)

	minBase, err := floatQuery(r, "min_base", defaultMinBase)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	topN, err := intQuery(r, "top_n", defaultTopN)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if topN < 1 || topN > maxTopN {
		respondError(w, http.StatusBadRequest, "top_n out of range")
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

	result, err := surprise.RankTickers(records, frequency, selected, metric, minBase, topN)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"frequency": frequency,
			"period":    selected,
			"result":    result,
		},
	})
}

func floatQuery(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
