package emenda

func valor(v float64) *float64 { return &v }

func validInput() Input {
	return Input{
		Numero:     "847/2024",
		Exercicio:  2024,
		Modalidade: ModalidadeEspecial,
		Status:     StatusRascunho,
		Concedente: Concedente{Tipo: ConcedenteParlamentar, Nome: "Dep. Maria Santos"},
		Recebedor: Recebedor{
			Tipo:       RecebedorPrefeitura,
			Nome:       "Prefeitura Municipal de Belo Horizonte",
			CNPJ:       "18.715.383/0001-40",
			Municipio:  "Belo Horizonte",
			UF:         "MG",
			CodigoIBGE: "3106200",
		},
		Objeto: Objeto{
			Tipo:      ObjetoSaude,
			Descricao: "Construção de Unidade Básica de Saúde no Bairro Venda Nova",
			GND:       GND4,
		},
		ValorIndicado: 1500000,
		Gestor:        Gestor{Nome: "Dr. Carlos Alberto de Souza"},
		AnuenciaSus:   AnuenciaSim,
		ContaBancaria: &ContaBancaria{Banco: "bb", Agencia: "1234-5", Conta: "12345-6"},
		Eventos: []Evento{
			{ID: "ev-1", Tipo: EventoDisponibilizacao, Data: "2024-03-20", Valor: valor(750000), Observacao: "Primeira parcela liberada"},
			{ID: "ev-2", Tipo: EventoDisponibilizacao, Data: "2024-05-10", Valor: valor(750000)},
		},
	}
}
