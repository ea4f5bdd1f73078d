package store

import (
	"context"
	"fmt"
	"time"

	"github.com/farxc/portal-emendas/internal/emenda"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(v float64) *float64 { return &v }

// sampleEmendas is the demo data set loaded by Seed. Ids are assigned at
// seeding time.
func sampleEmendas() []emenda.Emenda {
	return []emenda.Emenda{
		{
			Numero:     "847/2024",
			Exercicio:  2024,
			Modalidade: emenda.ModalidadeEspecial,
			Status:     emenda.StatusPublicada,
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
				Descricao: "Construção de Unidade Básica de Saúde no Bairro Venda Nova, com capacidade para atendimento de 15.000 habitantes, contemplando consultórios médicos, sala de vacinação, farmácia básica e área administrativa.",
				GND:       emenda.GND4,
			},
			ValorIndicado: 1500000,
			Gestor:        emenda.Gestor{Nome: "Dr. Carlos Alberto de Souza"},
			AnuenciaSus:   emenda.AnuenciaSim,
			ContaBancaria: &emenda.ContaBancaria{Banco: "bb", Agencia: "1234-5", Conta: "12345-6"},
			Eventos: []emenda.Evento{
				{Tipo: emenda.EventoDisponibilizacao, Data: "2024-03-20", Valor: amount(750000), Observacao: "Primeira parcela liberada"},
				{Tipo: emenda.EventoDisponibilizacao, Data: "2024-05-10", Valor: amount(750000), Observacao: "Segunda parcela liberada"},
			},
			CriadoEm:     ts("2024-02-15T10:00:00Z"),
			AtualizadoEm: ts("2024-05-15T14:30:00Z"),
			CriadoPor:    "João Silva",
		},
		{
			Numero:     "846/2024",
			Exercicio:  2024,
			Modalidade: emenda.ModalidadeConvenio,
			Status:     emenda.StatusPublicavel,
			Concedente: emenda.Concedente{Tipo: emenda.ConcedenteBancada, Nome: "Bancada do Interior"},
			Recebedor: emenda.Recebedor{
				Tipo:       emenda.RecebedorPrefeitura,
				Nome:       "Prefeitura Municipal de Uberlândia",
				CNPJ:       "18.431.312/0001-50",
				Municipio:  "Uberlândia",
				UF:         "MG",
				CodigoIBGE: "3170206",
			},
			Objeto: emenda.Objeto{
				Tipo:      emenda.ObjetoSaude,
				Descricao: "Aquisição de equipamentos hospitalares para o Hospital Municipal, incluindo tomógrafo, aparelhos de raio-x e monitores cardíacos.",
				GND:       emenda.GND4,
			},
			ValorIndicado: 890000,
			Gestor:        emenda.Gestor{Nome: "Dra. Ana Paula Ferreira"},
			AnuenciaSus:   emenda.AnuenciaSim,
			Eventos:       []emenda.Evento{},
			CriadoEm:      ts("2024-03-01T09:00:00Z"),
			AtualizadoEm:  ts("2024-03-01T09:00:00Z"),
		},
		{
			Numero:     "845/2024",
			Exercicio:  2024,
			Modalidade: emenda.ModalidadeEspecial,
			Status:     emenda.StatusPublicada,
			Concedente: emenda.Concedente{Tipo: emenda.ConcedenteParlamentar, Nome: "Dep. João Oliveira"},
			Recebedor: emenda.Recebedor{
				Tipo:       emenda.RecebedorPrefeitura,
				Nome:       "Prefeitura Municipal de Juiz de Fora",
				CNPJ:       "18.338.178/0001-02",
				Municipio:  "Juiz de Fora",
				UF:         "MG",
				CodigoIBGE: "3136702",
			},
			Objeto: emenda.Objeto{
				Tipo:      emenda.ObjetoInfraestrutura,
				Descricao: "Pavimentação de vias urbanas no centro histórico, incluindo calçamento em pedra portuguesa e instalação de drenagem pluvial.",
				GND:       emenda.GND4,
			},
			ValorIndicado: 2100000,
			Gestor:        emenda.Gestor{Nome: "Eng. Roberto Mendes"},
			AnuenciaSus:   emenda.AnuenciaNA,
			ContaBancaria: &emenda.ContaBancaria{Banco: "caixa", Agencia: "0987-6", Conta: "98765-4"},
			Eventos: []emenda.Evento{
				{Tipo: emenda.EventoDisponibilizacao, Data: "2024-04-15", Valor: amount(2100000), Observacao: "Valor integral liberado"},
			},
			CriadoEm:     ts("2024-02-20T11:00:00Z"),
			AtualizadoEm: ts("2024-04-15T16:00:00Z"),
		},
		{
			Numero:     "844/2024",
			Exercicio:  2024,
			Modalidade: emenda.ModalidadeFundo,
			Status:     emenda.StatusPublicavel,
			Concedente: emenda.Concedente{Tipo: emenda.ConcedenteComissao, Nome: "Comissão de Saúde"},
			Recebedor: emenda.Recebedor{
				Tipo:       emenda.RecebedorPrefeitura,
				Nome:       "Prefeitura Municipal de Montes Claros",
				CNPJ:       "22.678.874/0001-38",
				Municipio:  "Montes Claros",
				UF:         "MG",
				CodigoIBGE: "3143302",
			},
			Objeto: emenda.Objeto{
				Tipo:      emenda.ObjetoSaude,
				Descricao: "Reforma de Centro de Saúde Municipal com adequação às normas de acessibilidade e ampliação da área de atendimento.",
				GND:       emenda.GND3,
			},
			ValorIndicado: 750000,
			Gestor:        emenda.Gestor{Nome: "Dra. Fernanda Lima"},
			AnuenciaSus:   emenda.AnuenciaSim,
			Eventos: []emenda.Evento{
				{Tipo: emenda.EventoDisponibilizacao, Data: "2024-03-25", Valor: amount(500000), Observacao: "Primeira parcela"},
			},
			CriadoEm:     ts("2024-02-28T14:00:00Z"),
			AtualizadoEm: ts("2024-03-25T10:00:00Z"),
		},
		{
			Numero:     "843/2024",
			Exercicio:  2024,
			Modalidade: emenda.ModalidadeEspecial,
			Status:     emenda.StatusPublicada,
			Concedente: emenda.Concedente{Tipo: emenda.ConcedenteParlamentar, Nome: "Dep. Ana Paula"},
			Recebedor: emenda.Recebedor{
				Tipo:       emenda.RecebedorPrefeitura,
				Nome:       "Prefeitura Municipal de Governador Valadares",
				CNPJ:       "18.404.780/0001-77",
				Municipio:  "Governador Valadares",
				UF:         "MG",
				CodigoIBGE: "3127701",
			},
			Objeto: emenda.Objeto{
				Tipo:      emenda.ObjetoEducacao,
				Descricao: "Construção de creche municipal no Bairro São Paulo com capacidade para 120 crianças de 0 a 5 anos.",
				GND:       emenda.GND4,
			},
			ValorIndicado: 1200000,
			Gestor:        emenda.Gestor{Nome: "Prof. Marcos Antônio"},
			AnuenciaSus:   emenda.AnuenciaNA,
			ContaBancaria: &emenda.ContaBancaria{Banco: "bb", Agencia: "2345-6", Conta: "34567-8"},
			Eventos: []emenda.Evento{
				{Tipo: emenda.EventoDisponibilizacao, Data: "2024-04-01", Valor: amount(600000), Observacao: "Primeira parcela"},
				{Tipo: emenda.EventoDisponibilizacao, Data: "2024-05-01", Valor: amount(600000), Observacao: "Segunda parcela"},
			},
			CriadoEm:     ts("2024-03-10T09:00:00Z"),
			AtualizadoEm: ts("2024-05-01T11:00:00Z"),
		},
	}
}

// Seed loads the sample records. Without force it only writes when the
// collection is empty and returns 0 otherwise; with force it replaces
// whatever is stored.
func (s *EmendaStore) Seed(ctx context.Context, force bool) (int, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if !force && len(s.c.load(ctx)) > 0 {
		s.c.log.Info(componentEmendas, "seed skipped, records already exist")
		return 0, nil
	}

	records := sampleEmendas()
	for i := range records {
		records[i].ID = s.c.newID()
		records[i].Eventos = s.withEventIDs(records[i].Eventos)
		emenda.Recompute(&records[i])
	}
	if err := s.c.save(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to seed records: %w", err)
	}

	s.c.log.Info(componentEmendas, "seeded records: count=%d force=%t", len(records), force)
	return len(records), nil
}

// Clear removes the record collection. The draft slot is left alone.
func (s *EmendaStore) Clear(ctx context.Context) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if err := s.c.kv.Remove(ctx, RecordsKey); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	s.c.log.Info(componentEmendas, "cleared all records")
	return nil
}
