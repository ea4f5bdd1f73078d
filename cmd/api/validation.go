package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/response"
)

type ValidationResponse = response.APIResponse[response.ValidationResult]

func (app *application) writeValidation(w http.ResponseWriter, step int, fe emenda.FieldErrors) {
	result := response.ValidationResult{
		Valid:  fe.Valid(),
		Step:   step,
		Title:  emenda.StepTitle(step),
		Fields: fe,
	}

	if err := writeJSON(w, http.StatusOK, &ValidationResponse{Success: true, Data: result}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Validate one wizard step
// @Description	Checks only the fields that belong to the step. Invalid input is reported in the body with status 200.
// @Tags			Validation
// @Accept			json
// @Produce		json
// @Param			step	path		int				true	"Step (1-5)"
// @Param			input	body		emenda.Input	true	"Form state"
// @Success		200		{object}	ValidationResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/validation/steps/{step} [post]
func (app *application) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid step parameter")
		return
	}

	var input emenda.Input
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app.writeValidation(w, step, emenda.ValidateStep(step, input))
}

// @Summary		Validate a whole record
// @Tags			Validation
// @Accept			json
// @Produce		json
// @Param			input	body		emenda.Input	true	"Record"
// @Success		200		{object}	ValidationResponse
// @Router			/validation/full [post]
func (app *application) handleValidateFull(w http.ResponseWriter, r *http.Request) {
	var input emenda.Input
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app.writeValidation(w, 0, emenda.ValidateFull(input))
}

// @Summary		Validate a record for publication
// @Tags			Validation
// @Accept			json
// @Produce		json
// @Param			input	body		emenda.Input	true	"Record"
// @Success		200		{object}	ValidationResponse
// @Router			/validation/publish [post]
func (app *application) handleValidatePublish(w http.ResponseWriter, r *http.Request) {
	var input emenda.Input
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app.writeValidation(w, 0, emenda.ValidateForPublish(input))
}
