package handlers

import (
	"net/http"

	"github.com/minhvo/earnscope/internal/period"
)

// GetPeriods returns the available reporting periods, newest first.
// GET /api/periods?frequency=Quarterly|Annual
func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	frequency, err := period.ParseFrequency(queryOr(r, "frequency", string(period.Quarterly)))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	periods, err := h.source.AvailablePeriods(ctx, frequency)
	if err != nil {
		h.logger.WithError(err).WithField("frequency", frequency).Error("Failed to list periods")
		respondError(w, http.StatusInternalServerError, "Failed to list periods")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"frequency": frequency,
			"count":     len(periods),
			"periods":   periods,
		},
	})
}

// queryOr reads a query parameter with a fallback default.
func queryOr(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}
