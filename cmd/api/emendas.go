package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/response"
	"github.com/farxc/portal-emendas/internal/store"
)

type ListEmendasResponse = response.APIResponse[store.PaginatedResult[emenda.ListItem]]
type EmendaResponse = response.APIResponse[*emenda.Emenda]

// @Summary		List emendas
// @Description	Filters and paginates earmark records, newest first.
// @Tags			Emendas
// @Produce		json
// @Param			search			query		string					false	"Substring of numero, descricao, concedente or municipio"
// @Param			exercicio		query		int						false	"Fiscal year"
// @Param			tipoConcedente	query		string					false	"Grantor type"
// @Param			gnd				query		string					false	"GND"
// @Param			status			query		string					false	"Status"
// @Param			conformidade	query		string					false	"Compliance state"
// @Param			municipio		query		string					false	"Recipient municipality"
// @Param			page			query		int						false	"Page"		default(1)
// @Param			pageSize		query		int						false	"Page size"	default(10)
// @Success		200				{object}	ListEmendasResponse
// @Failure		400				{object}	response.ErrorResponse
// @Router			/emendas [get]
func (app *application) handleListEmendas(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	pagination, err := parsePagination(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := app.store.Emendas.List(r.Context(), filters, pagination)

	response := &ListEmendasResponse{
		Success: true,
		Data:    data,
		Message: "Successfully listed emendas",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get emenda
// @Tags			Emendas
// @Produce		json
// @Param			id	path		string	true	"Record id"
// @Success		200	{object}	EmendaResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/emendas/{id} [get]
func (app *application) handleGetEmenda(w http.ResponseWriter, r *http.Request) {
	e := app.store.Emendas.GetByID(r.Context(), chi.URLParam(r, "id"))
	if e == nil {
		writeJSONError(w, http.StatusNotFound, "emenda not found")
		return
	}

	if err := writeJSON(w, http.StatusOK, &EmendaResponse{Success: true, Data: e}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Create emenda
// @Description	Validates the whole record (and the publication rule when status is publicada) and stores it.
// @Tags			Emendas
// @Accept			json
// @Produce		json
// @Param			emenda	body		emenda.Input	true	"Record"
// @Success		201		{object}	EmendaResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		422		{object}	response.ValidationErrorResponse
// @Failure		500		{object}	response.ErrorResponse
// @Router			/emendas [post]
func (app *application) handleCreateEmenda(w http.ResponseWriter, r *http.Request) {
	const component = "API"

	var input emenda.Input
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if fe := validateForStatus(input); !fe.Valid() {
		writeValidationError(w, fe)
		return
	}

	created, err := app.store.Emendas.Create(r.Context(), input)
	if err != nil {
		app.logger.Error(component, "create failed: numero=%s err=%v", input.Numero, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create emenda: "+err.Error())
		return
	}

	response := &EmendaResponse{
		Success: true,
		Data:    created,
		Message: "Emenda created",
	}

	if err := writeJSON(w, http.StatusCreated, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Update emenda
// @Description	Shallow merge: each top-level field present in the body replaces the stored one.
// @Tags			Emendas
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Record id"
// @Param			patch	body		emenda.Patch	true	"Fields to replace"
// @Success		200		{object}	EmendaResponse
// @Failure		404		{object}	response.ErrorResponse
// @Failure		422		{object}	response.ValidationErrorResponse
// @Router			/emendas/{id} [patch]
func (app *application) handleUpdateEmenda(w http.ResponseWriter, r *http.Request) {
	const component = "API"
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var patch emenda.Patch
	if err := readJSON(w, r, &patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	current := app.store.Emendas.GetByID(ctx, id)
	if current == nil {
		writeJSONError(w, http.StatusNotFound, "emenda not found")
		return
	}
	merged := *current
	patch.Apply(&merged)
	if fe := validateForStatus(merged.Input()); !fe.Valid() {
		writeValidationError(w, fe)
		return
	}

	updated, err := app.store.Emendas.Update(ctx, id, patch)
	if err != nil {
		app.logger.Error(component, "update failed: id=%s err=%v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to update emenda: "+err.Error())
		return
	}
	if updated == nil {
		writeJSONError(w, http.StatusNotFound, "emenda not found")
		return
	}

	if err := writeJSON(w, http.StatusOK, &EmendaResponse{Success: true, Data: updated, Message: "Emenda updated"}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Delete emenda
// @Tags			Emendas
// @Param			id	path	string	true	"Record id"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Router			/emendas/{id} [delete]
func (app *application) handleDeleteEmenda(w http.ResponseWriter, r *http.Request) {
	deleted, err := app.store.Emendas.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to delete emenda: "+err.Error())
		return
	}
	if !deleted {
		writeJSONError(w, http.StatusNotFound, "emenda not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary		Duplicate emenda
// @Description	Creates a draft copy whose numero ends in -COPIA.
// @Tags			Emendas
// @Produce		json
// @Param			id	path		string	true	"Record id"
// @Success		201	{object}	EmendaResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/emendas/{id}/duplicate [post]
func (app *application) handleDuplicateEmenda(w http.ResponseWriter, r *http.Request) {
	dup, err := app.store.Emendas.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to duplicate emenda: "+err.Error())
		return
	}
	if dup == nil {
		writeJSONError(w, http.StatusNotFound, "emenda not found")
		return
	}

	if err := writeJSON(w, http.StatusCreated, &EmendaResponse{Success: true, Data: dup, Message: "Emenda duplicated"}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Export emendas as CSV
// @Tags			Emendas
// @Produce		text/csv
// @Success		200	{string}	string
// @Router			/emendas/export.csv [get]
func (app *application) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	app.export(w, r, "text/csv; charset=utf-8", "emendas.csv", app.store.Emendas.ExportCSV)
}

// @Summary		Export emendas as JSON
// @Tags			Emendas
// @Produce		json
// @Success		200	{array}	emenda.ListItem
// @Router			/emendas/export.json [get]
func (app *application) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	app.export(w, r, "application/json", "emendas.json", app.store.Emendas.ExportJSON)
}

func (app *application) export(w http.ResponseWriter, r *http.Request, contentType, filename string,
	run func(ctx context.Context, f store.Filters) (string, error)) {
	filters, err := parseFilters(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := run(r.Context(), filters)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to export: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}
