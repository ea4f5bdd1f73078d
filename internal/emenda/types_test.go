package emenda

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchApplyIsShallow(t *testing.T) {
	e := FromInput(validInput())
	numero := "900/2025"
	p := Patch{
		Numero:    &numero,
		Recebedor: &Recebedor{Municipio: "Contagem"},
	}

	p.Apply(&e)

	assert.Equal(t, "900/2025", e.Numero)
	assert.Equal(t, "Contagem", e.Recebedor.Municipio)
	// The whole sub-object was replaced.
	assert.Empty(t, e.Recebedor.CNPJ)
	assert.Equal(t, 2024, e.Exercicio)
	assert.Len(t, e.Eventos, 2)
}

func TestPatchApplyEmptyEventos(t *testing.T) {
	e := FromInput(validInput())
	Patch{Eventos: []Evento{}}.Apply(&e)
	assert.NotNil(t, e.Eventos)
	assert.Empty(t, e.Eventos)
}

func TestSummaryTruncatesDescricao(t *testing.T) {
	e := FromInput(validInput())
	e.Objeto.Descricao = strings.Repeat("é", 150)

	item := e.Summary()

	assert.Equal(t, strings.Repeat("é", 100)+"...", item.Objeto)
	assert.Equal(t, e.Recebedor.UF, item.Recebedor.UF)
	assert.Equal(t, e.Objeto.GND, item.GND)

	e.Objeto.Descricao = strings.Repeat("a", 100)
	assert.Equal(t, strings.Repeat("a", 100), e.Summary().Objeto)
}

func TestInputRoundTrip(t *testing.T) {
	in := validInput()
	assert.Equal(t, in, FromInput(in).Input())
}
