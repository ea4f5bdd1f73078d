package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/farxc/portal-emendas/internal/response"
	"github.com/farxc/portal-emendas/internal/store"
)

type DraftResponse = response.APIResponse[json.RawMessage]

// @Summary		Load the wizard draft
// @Tags			Draft
// @Produce		json
// @Success		200	{object}	DraftResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/draft [get]
func (app *application) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	data, ok := app.store.Drafts.LoadDraft(r.Context())
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no draft saved")
		return
	}

	if err := writeJSON(w, http.StatusOK, &DraftResponse{Success: true, Data: data}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Save the wizard draft
// @Description	Replaces the single draft slot with any JSON document.
// @Tags			Draft
// @Accept			json
// @Success		204
// @Failure		400	{object}	response.ErrorResponse
// @Router			/draft [put]
func (app *application) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var data json.RawMessage
	if err := readJSON(w, r, &data); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := app.store.Drafts.SaveDraft(r.Context(), data); err != nil {
		if errors.Is(err, store.ErrInvalidDraft) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to save draft: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary		Clear the wizard draft
// @Tags			Draft
// @Success		204
// @Router			/draft [delete]
func (app *application) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := app.store.Drafts.ClearDraft(r.Context()); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to clear draft: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
