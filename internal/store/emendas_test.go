package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/logger"
)

func TestCreateRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	in := validInput()

	created := mustCreate(t, s, in)
	require.NotEmpty(t, created.ID)

	got := s.Emendas.GetByID(ctx, created.ID)
	require.NotNil(t, got)

	want := emenda.FromInput(in)
	want.ID = created.ID
	want.CriadoEm = fixedNow
	want.AtualizadoEm = fixedNow
	want.ValorDisponibilizado = 1500000
	want.Conformidade = emenda.ConformidadeOK

	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("stored record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(*created, *got); diff != "" {
		t.Errorf("returned record differs from stored (-returned +stored):\n%s", diff)
	}
}

func TestCreateAssignsMissingEventIDs(t *testing.T) {
	s, _ := newTestStorage(t)
	in := validInput()
	in.Eventos = []emenda.Evento{{Tipo: emenda.EventoEmpenho, Data: "2024-01-01"}}

	created := mustCreate(t, s, in)

	assert.NotEmpty(t, created.Eventos[0].ID)
	assert.Empty(t, in.Eventos[0].ID, "caller's slice is not modified")
	assert.Equal(t, emenda.ConformidadePendente, created.Conformidade)
}

func TestCreatePrependsAndIDsAreUnique(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	first := mustCreate(t, s, validInput())
	second := mustCreate(t, s, validInput())
	assert.NotEqual(t, first.ID, second.ID)

	page := s.Emendas.List(ctx, Filters{}, Pagination{})
	require.Len(t, page.Data, 2)
	assert.Equal(t, second.ID, page.Data[0].ID)
	assert.Equal(t, first.ID, page.Data[1].ID)
}

func TestListPagination(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		in := validInput()
		in.Numero = fmt.Sprintf("%d/2024", i+1)
		mustCreate(t, s, in)
	}

	tests := []struct {
		page     int
		wantLen  int
		wantHead string
	}{
		{page: 1, wantLen: 10, wantHead: "25/2024"},
		{page: 2, wantLen: 10, wantHead: "15/2024"},
		{page: 3, wantLen: 5, wantHead: "5/2024"},
		{page: 4, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			res := s.Emendas.List(ctx, Filters{}, Pagination{Page: tt.page, PageSize: 10})
			assert.Len(t, res.Data, tt.wantLen)
			assert.NotNil(t, res.Data)
			assert.Equal(t, 25, res.Total)
			assert.Equal(t, 3, res.TotalPages)
			assert.Equal(t, tt.page, res.Page)
			if tt.wantHead != "" {
				assert.Equal(t, tt.wantHead, res.Data[0].Numero)
			}
		})
	}
}

func TestListDefaults(t *testing.T) {
	s, _ := newTestStorage(t)

	res := s.Emendas.List(context.Background(), Filters{}, Pagination{Page: 0, PageSize: -5})
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPageSize, res.PageSize)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.TotalPages)
	assert.Empty(t, res.Data)
}

func TestListHugePaginationDoesNotOverflow(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	mustCreate(t, s, validInput())

	tests := []struct {
		name      string
		p         Pagination
		wantLen   int
		wantPages int
	}{
		{"first page of max size", Pagination{Page: 1, PageSize: math.MaxInt}, 1, 1},
		{"second page of max size", Pagination{Page: 2, PageSize: math.MaxInt}, 0, 1},
		{"page far past the end", Pagination{Page: math.MaxInt/2 + 2, PageSize: 4}, 0, 1},
		{"both at max", Pagination{Page: math.MaxInt, PageSize: math.MaxInt}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res PaginatedResult[emenda.ListItem]
			require.NotPanics(t, func() { res = s.Emendas.List(ctx, Filters{}, tt.p) })
			assert.Len(t, res.Data, tt.wantLen)
			assert.Equal(t, 1, res.Total)
			assert.Equal(t, tt.wantPages, res.TotalPages)
		})
	}
}

func TestListFilterConjunction(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	combos := []struct {
		exercicio int
		status    emenda.Status
	}{
		{2024, emenda.StatusPublicada},
		{2024, emenda.StatusRascunho},
		{2023, emenda.StatusPublicada},
		{2024, emenda.StatusPublicada},
	}
	for i, c := range combos {
		in := validInput()
		in.Numero = fmt.Sprintf("%d/%d", i+1, c.exercicio)
		in.Exercicio = c.exercicio
		in.Status = c.status
		mustCreate(t, s, in)
	}

	res := s.Emendas.List(ctx, Filters{Exercicio: 2024, Status: emenda.StatusPublicada}, Pagination{})
	require.Equal(t, 2, res.Total)
	for _, item := range res.Data {
		assert.Equal(t, 2024, item.Exercicio)
		assert.Equal(t, emenda.StatusPublicada, item.Status)
	}

	res = s.Emendas.List(ctx, Filters{Exercicio: 2023, Status: emenda.StatusRascunho}, Pagination{})
	assert.Zero(t, res.Total)
}

func TestListFilters(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	bh := validInput()
	mustCreate(t, s, bh)

	contagem := validInput()
	contagem.Numero = "12/2023"
	contagem.Concedente = emenda.Concedente{Tipo: emenda.ConcedenteBancada, Nome: "Bancada do Interior"}
	contagem.Recebedor.Municipio = "Contagem"
	contagem.Objeto = emenda.Objeto{Tipo: emenda.ObjetoCultura, Descricao: "Reforma do teatro municipal", GND: emenda.GND3}
	contagem.Eventos = nil
	mustCreate(t, s, contagem)

	tests := []struct {
		name string
		f    Filters
		want []string
	}{
		{"search numero", Filters{Search: "12/20"}, []string{"12/2023"}},
		{"search descricao ignores case", Filters{Search: "VENDA nova"}, []string{"847/2024"}},
		{"search accented", Filters{Search: "SAÚDE"}, []string{"847/2024"}},
		{"search concedente", Filters{Search: "bancada"}, []string{"12/2023"}},
		{"search municipio", Filters{Search: "belo"}, []string{"847/2024"}},
		{"tipo concedente", Filters{TipoConcedente: emenda.ConcedenteParlamentar}, []string{"847/2024"}},
		{"gnd", Filters{GND: emenda.GND3}, []string{"12/2023"}},
		{"conformidade", Filters{Conformidade: emenda.ConformidadePendente}, []string{"12/2023"}},
		{"conformidade erro never matches", Filters{Conformidade: emenda.ConformidadeErro}, nil},
		{"municipio exact", Filters{Municipio: "contagem"}, []string{"12/2023"}},
		{"municipio is not a substring match", Filters{Municipio: "Conta"}, nil},
		{"no filters", Filters{}, []string{"12/2023", "847/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Emendas.List(ctx, tt.f, Pagination{PageSize: 100})
			var got []string
			for _, it := range res.Data {
				got = append(got, it.Numero)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListProjection(t *testing.T) {
	s, _ := newTestStorage(t)
	in := validInput()
	in.Objeto.Descricao = strings.Repeat("a", 120)
	created := mustCreate(t, s, in)

	item := s.Emendas.List(context.Background(), Filters{}, Pagination{}).Data[0]

	assert.Equal(t, created.Summary(), item)
	assert.Equal(t, strings.Repeat("a", 100)+"...", item.Objeto)
	assert.Equal(t, emenda.RecebedorResumo{Nome: in.Recebedor.Nome, Municipio: "Belo Horizonte", UF: "MG"}, item.Recebedor)
}

func TestGetByIDMissing(t *testing.T) {
	s, _ := newTestStorage(t)
	assert.Nil(t, s.Emendas.GetByID(context.Background(), "nope"))
}

func TestUpdate(t *testing.T) {
	s, clock := newClockedStorage(t)
	ctx := context.Background()
	created := mustCreate(t, s, validInput())

	*clock = fixedNow.Add(time.Hour)
	status := emenda.StatusPublicada
	updated, err := s.Emendas.Update(ctx, created.ID, emenda.Patch{
		Status:    &status,
		Recebedor: &emenda.Recebedor{Municipio: "Contagem"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, emenda.StatusPublicada, updated.Status)
	assert.Equal(t, "Contagem", updated.Recebedor.Municipio)
	assert.Empty(t, updated.Recebedor.CNPJ, "nested objects are replaced, not merged")
	assert.Equal(t, emenda.ConformidadePendente, updated.Conformidade)
	assert.Equal(t, 1500000.0, updated.ValorDisponibilizado, "kept without new events")
	assert.Equal(t, fixedNow, updated.CriadoEm)
	assert.Equal(t, fixedNow.Add(time.Hour), updated.AtualizadoEm)
	assert.Equal(t, created.ID, updated.ID)

	stored := s.Emendas.GetByID(ctx, created.ID)
	assert.Equal(t, "Contagem", stored.Recebedor.Municipio)
}

func TestUpdateEventosRecomputesDisbursed(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	created := mustCreate(t, s, validInput())

	updated, err := s.Emendas.Update(ctx, created.ID, emenda.Patch{
		Eventos: []emenda.Evento{{Tipo: emenda.EventoEmpenho, Data: "2024-02-01", Valor: valor(10)}},
	})
	require.NoError(t, err)
	assert.Zero(t, updated.ValorDisponibilizado)
	assert.Equal(t, emenda.ConformidadePendente, updated.Conformidade)
	assert.NotEmpty(t, updated.Eventos[0].ID)

	updated, err = s.Emendas.Update(ctx, created.ID, emenda.Patch{
		Eventos: []emenda.Evento{{ID: "x", Tipo: emenda.EventoDisponibilizacao, Data: "2024-02-01", Valor: valor(99.9)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 99.9, updated.ValorDisponibilizado)
	assert.Equal(t, emenda.ConformidadeOK, updated.Conformidade)
}

func TestUpdateMissing(t *testing.T) {
	s, mem := newTestStorage(t)
	status := emenda.StatusPublicada

	got, err := s.Emendas.Update(context.Background(), "nope", emenda.Patch{Status: &status})
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = mem.Get(context.Background(), RecordsKey)
	assert.Error(t, err, "nothing is written")
}

func TestDeleteTwice(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	created := mustCreate(t, s, validInput())
	other := mustCreate(t, s, validInput())

	ok, err := s.Emendas.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Emendas.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Nil(t, s.Emendas.GetByID(ctx, created.ID))
	assert.NotNil(t, s.Emendas.GetByID(ctx, other.ID))
}

func TestListMunicipioFoldsLikeSearch(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	in := validInput()
	in.Recebedor.Municipio = "Großstadt"
	mustCreate(t, s, in)

	for _, f := range []Filters{{Search: "GROSSSTADT"}, {Municipio: "GROSSSTADT"}, {Municipio: "großstadt"}} {
		assert.Equal(t, 1, s.Emendas.List(ctx, f, Pagination{}).Total, "%+v", f)
	}
}

func TestDuplicate(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	in := validInput()
	in.Status = emenda.StatusPublicada
	original := mustCreate(t, s, in)

	dup, err := s.Emendas.Duplicate(ctx, original.ID)
	require.NoError(t, err)
	require.NotNil(t, dup)

	assert.NotEqual(t, original.ID, dup.ID)
	assert.Equal(t, "847/2024-COPIA", dup.Numero)
	assert.True(t, strings.HasSuffix(dup.Numero, DuplicateSuffix))
	assert.Equal(t, emenda.StatusRascunho, dup.Status)
	assert.Equal(t, original.ValorDisponibilizado, dup.ValorDisponibilizado)
	assert.Equal(t, original.Objeto, dup.Objeto)

	require.Len(t, dup.Eventos, len(original.Eventos))
	for i, ev := range dup.Eventos {
		assert.NotEmpty(t, ev.ID)
		assert.NotEqual(t, original.Eventos[i].ID, ev.ID, "event %d shares its id with the source", i)
		assert.Equal(t, original.Eventos[i].Tipo, ev.Tipo)
		assert.Equal(t, original.Eventos[i].Valor, ev.Valor)
	}

	again := s.Emendas.GetByID(ctx, original.ID)
	if diff := cmp.Diff(*original, *again); diff != "" {
		t.Errorf("original changed (-before +after):\n%s", diff)
	}

	res := s.Emendas.List(ctx, Filters{}, Pagination{})
	assert.Equal(t, dup.ID, res.Data[0].ID, "copy is the newest record")

	missing, err := s.Emendas.Duplicate(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCorruptBlobReadsAsEmpty(t *testing.T) {
	s, mem := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, RecordsKey, []byte("{not json")))

	assert.Zero(t, s.Emendas.List(ctx, Filters{}, Pagination{}).Total)
	assert.Nil(t, s.Emendas.GetByID(ctx, "x"))

	created := mustCreate(t, s, validInput())
	assert.NotNil(t, s.Emendas.GetByID(ctx, created.ID), "the next write replaces the corrupt blob")
}

func TestBackendFailures(t *testing.T) {
	ctx := context.Background()

	readBroken := NewStorage(brokenKV{getErr: errBackend}, logger.Nop())
	assert.Zero(t, readBroken.Emendas.List(ctx, Filters{}, Pagination{}).Total)

	writeBroken := NewStorage(brokenKV{getErr: errBackend, setErr: errBackend}, logger.Nop())
	_, err := writeBroken.Emendas.Create(ctx, validInput())
	assert.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, writeBroken.Emendas.Clear(ctx), errBackend)
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	in := validInput()
	in.Concedente.Nome = `Bancada "Norte, Sul"`
	in.Objeto.Descricao = "Obra com \"aspas\", vírgulas\ne quebra de linha"
	in.ValorIndicado = 1234.5
	created := mustCreate(t, s, in)

	out, err := s.Emendas.ExportCSV(ctx, Filters{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID,Número,Exercício,Concedente,Tipo Concedente,Recebedor,Município,UF,Objeto,GND,Valor Indicado,Valor Disponibilizado,Status,Conformidade\n"))

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		created.ID, "847/2024", "2024", `Bancada "Norte, Sul"`, "parlamentar",
		"Prefeitura Municipal de Belo Horizonte", "Belo Horizonte", "MG",
		"Obra com \"aspas\", vírgulas\ne quebra de linha", "gnd4",
		"1234.5", "1500000", "rascunho", "ok",
	}, records[1])
}

func TestExportCSVFilteredHeaderOnly(t *testing.T) {
	s, _ := newTestStorage(t)
	mustCreate(t, s, validInput())

	out, err := s.Emendas.ExportCSV(context.Background(), Filters{Exercicio: 2020})
	require.NoError(t, err)
	assert.Equal(t, "ID,Número,Exercício,Concedente,Tipo Concedente,Recebedor,Município,UF,Objeto,GND,Valor Indicado,Valor Disponibilizado,Status,Conformidade\n", out)
}

func TestExportCSVIsNotPaginated(t *testing.T) {
	s, _ := newTestStorage(t)
	for i := 0; i < 15; i++ {
		mustCreate(t, s, validInput())
	}

	out, err := s.Emendas.ExportCSV(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, 16, strings.Count(out, "\n"))
}

func TestExportJSON(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	out, err := s.Emendas.ExportJSON(ctx, Filters{})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	created := mustCreate(t, s, validInput())
	out, err = s.Emendas.ExportJSON(ctx, Filters{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"id\": "))

	var items []emenda.ListItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []emenda.ListItem{created.Summary()}, items)
}

func TestSeed(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	n, err := s.Emendas.Seed(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = s.Emendas.Seed(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, n, "existing data is kept")

	mustCreate(t, s, validInput())
	n, err = s.Emendas.Seed(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	res := s.Emendas.List(ctx, Filters{}, Pagination{})
	require.Equal(t, 5, res.Total)
	assert.Equal(t, "847/2024", res.Data[0].Numero)

	pendentes := s.Emendas.List(ctx, Filters{Conformidade: emenda.ConformidadePendente}, Pagination{})
	require.Equal(t, 1, pendentes.Total)
	assert.Equal(t, "846/2024", pendentes.Data[0].Numero)

	for _, item := range res.Data {
		e := s.Emendas.GetByID(ctx, item.ID)
		require.NotNil(t, e)
		assert.Equal(t, emenda.ComputeDisbursed(e.Eventos), e.ValorDisponibilizado)
		for _, ev := range e.Eventos {
			assert.NotEmpty(t, ev.ID)
		}
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	mustCreate(t, s, validInput())
	require.NoError(t, s.Drafts.SaveDraft(ctx, json.RawMessage(`{"numero":"1"}`)))

	require.NoError(t, s.Emendas.Clear(ctx))

	assert.Zero(t, s.Emendas.List(ctx, Filters{}, Pagination{}).Total)
	_, ok := s.Drafts.LoadDraft(ctx)
	assert.True(t, ok, "the draft survives")
}
