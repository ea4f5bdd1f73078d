package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/cases"

	"github.com/farxc/portal-emendas/internal/emenda"
)

const (
	componentEmendas = "EmendaStore"

	DefaultPageSize = 10
	DuplicateSuffix = "-COPIA"
)

type EmendaStore struct {
	c *collection
}

// Filters are combined with AND. Zero values are not applied.
type Filters struct {
	Search         string
	Exercicio      int
	TipoConcedente emenda.TipoConcedente
	GND            emenda.GND
	Status         emenda.Status
	Conformidade   emenda.Conformidade
	Municipio      string
}

type Pagination struct {
	Page     int
	PageSize int
}

type PaginatedResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func (f Filters) match(e emenda.Emenda) bool {
	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	if f.Search != "" {
		needle := fold.String(f.Search)
		hit := false
		for _, field := range []string{e.Numero, e.Objeto.Descricao, e.Concedente.Nome, e.Recebedor.Municipio} {
			if strings.Contains(fold.String(field), needle) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Exercicio != 0 && e.Exercicio != f.Exercicio {
		return false
	}
	if f.TipoConcedente != "" && e.Concedente.Tipo != f.TipoConcedente {
		return false
	}
	if f.GND != "" && e.Objeto.GND != f.GND {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Conformidade != "" && e.Conformidade != f.Conformidade {
		return false
	}
	if f.Municipio != "" && fold.String(e.Recebedor.Municipio) != fold.String(f.Municipio) {
		return false
	}
	return true
}

func filter(records []emenda.Emenda, f Filters) []emenda.Emenda {
	out := make([]emenda.Emenda, 0, len(records))
	for _, e := range records {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}

func summarize(records []emenda.Emenda) []emenda.ListItem {
	items := make([]emenda.ListItem, 0, len(records))
	for _, e := range records {
		items = append(items, e.Summary())
	}
	return items
}

// List filters the stored records and returns one page of summaries, in
// storage order. A page past the end is empty, not an error.
func (s *EmendaStore) List(ctx context.Context, f Filters, p Pagination) PaginatedResult[emenda.ListItem] {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}

	matched := filter(s.c.load(ctx), f)
	total := len(matched)

	// Bounds are derived by division so huge page or pageSize values
	// cannot overflow.
	totalPages := total / p.PageSize
	if total%p.PageSize != 0 {
		totalPages++
	}
	start := total
	if p.Page <= totalPages {
		start = (p.Page - 1) * p.PageSize
	}
	end := start + min(p.PageSize, total-start)

	return PaginatedResult[emenda.ListItem]{
		Data:       summarize(matched[start:end]),
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}

func (s *EmendaStore) GetByID(ctx context.Context, id string) *emenda.Emenda {
	for _, e := range s.c.load(ctx) {
		if e.ID == id {
			return &e
		}
	}
	return nil
}

// Create assigns identity and timestamps, derives the computed fields and
// puts the record at the head of the collection.
func (s *EmendaStore) Create(ctx context.Context, in emenda.Input) (*emenda.Emenda, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	return s.create(ctx, in)
}

func (s *EmendaStore) create(ctx context.Context, in emenda.Input) (*emenda.Emenda, error) {
	e := emenda.FromInput(in)
	e.Eventos = s.withEventIDs(in.Eventos)
	e.ID = s.c.newID()
	now := s.c.timestamp()
	e.CriadoEm = now
	e.AtualizadoEm = now
	emenda.Recompute(&e)

	records := s.c.load(ctx)
	records = append([]emenda.Emenda{e}, records...)
	if err := s.c.save(ctx, records); err != nil {
		return nil, err
	}

	s.c.log.Info(componentEmendas, "created emenda: id=%s numero=%s conformidade=%s", e.ID, e.Numero, e.Conformidade)
	return &e, nil
}

// withEventIDs copies the events, giving an id to those that have none.
func (s *EmendaStore) withEventIDs(eventos []emenda.Evento) []emenda.Evento {
	out := make([]emenda.Evento, len(eventos))
	copy(out, eventos)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = s.c.newID()
		}
	}
	return out
}

// Update merges patch onto the stored record. The disbursed total is only
// recomputed when the patch carries events; compliance always is. A missing
// id returns nil without error.
func (s *EmendaStore) Update(ctx context.Context, id string, patch emenda.Patch) (*emenda.Emenda, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	records := s.c.load(ctx)
	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	e := records[idx]
	if patch.Eventos != nil {
		patch.Eventos = s.withEventIDs(patch.Eventos)
	}
	patch.Apply(&e)
	if patch.Eventos != nil {
		e.ValorDisponibilizado = emenda.ComputeDisbursed(e.Eventos)
	}
	e.Conformidade = emenda.ComputeCompliance(e.Input())
	e.AtualizadoEm = s.c.timestamp()

	records[idx] = e
	if err := s.c.save(ctx, records); err != nil {
		return nil, err
	}

	s.c.log.Info(componentEmendas, "updated emenda: id=%s conformidade=%s", e.ID, e.Conformidade)
	return &e, nil
}

func (s *EmendaStore) Delete(ctx context.Context, id string) (bool, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	records := s.c.load(ctx)
	kept := make([]emenda.Emenda, 0, len(records))
	for _, e := range records {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := s.c.save(ctx, kept); err != nil {
		return false, err
	}
	s.c.log.Info(componentEmendas, "deleted emenda: id=%s", id)
	return true, nil
}

// Duplicate creates a draft copy of a record under a new id, with
// DuplicateSuffix appended to its number.
func (s *EmendaStore) Duplicate(ctx context.Context, id string) (*emenda.Emenda, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	var source *emenda.Emenda
	for _, e := range s.c.load(ctx) {
		if e.ID == id {
			source = &e
			break
		}
	}
	if source == nil {
		return nil, nil
	}

	in := source.Input()
	in.Numero += DuplicateSuffix
	in.Status = emenda.StatusRascunho
	// The copy's events get ids of their own.
	in.Eventos = make([]emenda.Evento, len(source.Eventos))
	for i, ev := range source.Eventos {
		ev.ID = ""
		in.Eventos[i] = ev
	}
	return s.create(ctx, in)
}

type csvRow struct {
	ID                   string `csv:"ID"`
	Numero               string `csv:"Número"`
	Exercicio            string `csv:"Exercício"`
	Concedente           string `csv:"Concedente"`
	TipoConcedente       string `csv:"Tipo Concedente"`
	Recebedor            string `csv:"Recebedor"`
	Municipio            string `csv:"Município"`
	UF                   string `csv:"UF"`
	Objeto               string `csv:"Objeto"`
	GND                  string `csv:"GND"`
	ValorIndicado        string `csv:"Valor Indicado"`
	ValorDisponibilizado string `csv:"Valor Disponibilizado"`
	Status               string `csv:"Status"`
	Conformidade         string `csv:"Conformidade"`
}

func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportCSV writes every matching record as one CSV row of its summary.
// Amounts are raw numbers; any field holding a comma, quote or line break
// is quoted.
func (s *EmendaStore) ExportCSV(ctx context.Context, f Filters) (string, error) {
	items := summarize(filter(s.c.load(ctx), f))

	rows := make([]csvRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, csvRow{
			ID:                   it.ID,
			Numero:               it.Numero,
			Exercicio:            strconv.Itoa(it.Exercicio),
			Concedente:           it.Concedente.Nome,
			TipoConcedente:       string(it.Concedente.Tipo),
			Recebedor:            it.Recebedor.Nome,
			Municipio:            it.Recebedor.Municipio,
			UF:                   it.Recebedor.UF,
			Objeto:               it.Objeto,
			GND:                  string(it.GND),
			ValorIndicado:        formatRaw(it.ValorIndicado),
			ValorDisponibilizado: formatRaw(it.ValorDisponibilizado),
			Status:               string(it.Status),
			Conformidade:         string(it.Conformidade),
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode csv: %w", err)
	}
	return out, nil
}

// ExportJSON returns the matching summaries as an indented JSON array.
func (s *EmendaStore) ExportJSON(ctx context.Context, f Filters) (string, error) {
	items := summarize(filter(s.c.load(ctx), f))

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return string(out), nil
}
