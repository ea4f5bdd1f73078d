package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/kv"
	"github.com/farxc/portal-emendas/internal/logger"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func valor(v float64) *float64 { return &v }

func validInput() emenda.Input {
	return emenda.Input{
		Numero:     "847/2024",
		Exercicio:  2024,
		Modalidade: emenda.ModalidadeEspecial,
		Status:     emenda.StatusRascunho,
		Concedente: emenda.Concedente{Tipo: emenda.ConcedenteParlamentar, Nome: "Dep. Maria Santos"},
		Recebedor: emenda.Recebedor{
			Tipo:       emenda.RecebedorPrefeitura,
			Nome:       "Prefeitura Municipal de Belo Horizonte",
			CNPJ:       "18.715.383/0001-40",
			Municipio:  "Belo Horizonte",
			UF:         "MG",
			CodigoIBGE: "3106200",
		},
		Objeto: emenda.Objeto{
			Tipo:      emenda.ObjetoSaude,
			Descricao: "Construção de Unidade Básica de Saúde no Bairro Venda Nova",
			GND:       emenda.GND4,
		},
		ValorIndicado: 1500000,
		Gestor:        emenda.Gestor{Nome: "Dr. Carlos Alberto de Souza"},
		AnuenciaSus:   emenda.AnuenciaSim,
		ContaBancaria: &emenda.ContaBancaria{Banco: "bb", Agencia: "1234-5", Conta: "12345-6"},
		Eventos: []emenda.Evento{
			{ID: "ev-1", Tipo: emenda.EventoDisponibilizacao, Data: "2024-03-20", Valor: valor(750000)},
			{ID: "ev-2", Tipo: emenda.EventoDisponibilizacao, Data: "2024-05-10", Valor: valor(750000)},
		},
		CriadoPor: "João Silva",
	}
}

func newTestStorage(t *testing.T) (*Storage, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return NewStorage(mem, logger.Nop(), WithClock(func() time.Time { return fixedNow })), mem
}

// newClockedStorage returns a storage whose clock reads *now.
func newClockedStorage(t *testing.T) (*Storage, *time.Time) {
	t.Helper()
	now := fixedNow
	return NewStorage(kv.NewMemoryStore(), logger.Nop(), WithClock(func() time.Time { return now })), &now
}

func mustCreate(t *testing.T, s *Storage, in emenda.Input) *emenda.Emenda {
	t.Helper()
	e, err := s.Emendas.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return e
}

// brokenKV fails every call with the configured errors.
type brokenKV struct {
	getErr error
	setErr error
}

var errBackend = errors.New("backend unavailable")

func (b brokenKV) Get(context.Context, string) ([]byte, error) { return nil, b.getErr }
func (b brokenKV) Set(context.Context, string, []byte) error   { return b.setErr }
func (b brokenKV) Remove(context.Context, string) error        { return b.setErr }
