package main

import (
	"net/http"

	"github.com/farxc/portal-emendas/internal/response"
	"github.com/farxc/portal-emendas/internal/store"
)

type StatsResponse = response.APIResponse[store.Summary]

// @Summary		Dashboard statistics
// @Description	Totals, compliance counts, per-year sums and pending records for the filtered set.
// @Tags			Stats
// @Produce		json
// @Success		200	{object}	StatsResponse
// @Failure		400	{object}	response.ErrorResponse
// @Router			/stats [get]
func (app *application) handleGetStats(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := app.store.Stats.Summary(r.Context(), filters)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to compute stats: "+err.Error())
		return
	}

	response := &StatsResponse{
		Success: true,
		Data:    data,
		Message: "Successfully computed stats",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
