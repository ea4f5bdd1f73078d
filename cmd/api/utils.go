package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/store"
)

func parseIntOrDefault(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}

func parseFilters(r *http.Request) (store.Filters, error) {
	q := r.URL.Query()

	exercicio, err := parseIntOrDefault(q.Get("exercicio"), 0)
	if err != nil {
		return store.Filters{}, fmt.Errorf("invalid exercicio parameter")
	}

	return store.Filters{
		Search:         q.Get("search"),
		Exercicio:      exercicio,
		TipoConcedente: emenda.TipoConcedente(q.Get("tipoConcedente")),
		GND:            emenda.GND(q.Get("gnd")),
		Status:         emenda.Status(q.Get("status")),
		Conformidade:   emenda.Conformidade(q.Get("conformidade")),
		Municipio:      q.Get("municipio"),
	}, nil
}

func parsePagination(r *http.Request) (store.Pagination, error) {
	q := r.URL.Query()

	page, err := parseIntOrDefault(q.Get("page"), 1)
	if err != nil {
		return store.Pagination{}, fmt.Errorf("invalid page parameter")
	}
	pageSize, err := parseIntOrDefault(q.Get("pageSize"), store.DefaultPageSize)
	if err != nil {
		return store.Pagination{}, fmt.Errorf("invalid pageSize parameter")
	}
	return store.Pagination{Page: page, PageSize: pageSize}, nil
}

// validateForStatus runs the full rules, plus the publication rule when the
// record is (or becomes) published.
func validateForStatus(in emenda.Input) emenda.FieldErrors {
	if in.Status == emenda.StatusPublicada {
		return emenda.ValidateForPublish(in)
	}
	return emenda.ValidateFull(in)
}
