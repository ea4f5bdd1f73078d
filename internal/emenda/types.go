// Package emenda holds the earmark record ("emenda parlamentar") model, its
// validation rules and the derived-field calculations that every write must
// go through.
package emenda

import "time"

type TipoConcedente string

const (
	ConcedenteParlamentar TipoConcedente = "parlamentar"
	ConcedenteBancada     TipoConcedente = "bancada"
	ConcedenteComissao    TipoConcedente = "comissao"
	ConcedenteOutro       TipoConcedente = "outro"
)

type TipoRecebedor string

const (
	RecebedorPrefeitura TipoRecebedor = "prefeitura"
	RecebedorEstado     TipoRecebedor = "estado"
	RecebedorONG        TipoRecebedor = "ong"
	RecebedorOutro      TipoRecebedor = "outro"
)

type TipoObjeto string

const (
	ObjetoSaude          TipoObjeto = "saude"
	ObjetoEducacao       TipoObjeto = "educacao"
	ObjetoInfraestrutura TipoObjeto = "infraestrutura"
	ObjetoAssistencia    TipoObjeto = "assistencia"
	ObjetoCultura        TipoObjeto = "cultura"
	ObjetoEsporte        TipoObjeto = "esporte"
	ObjetoOutro          TipoObjeto = "outro"
)

// GND is the budget expenditure-nature group (custeio, investimento, other).
type GND string

const (
	GND3     GND = "gnd3"
	GND4     GND = "gnd4"
	GNDOutro GND = "outro"
)

type Modalidade string

const (
	ModalidadeEspecial Modalidade = "especial"
	ModalidadeFundo    Modalidade = "fundo"
	ModalidadeConvenio Modalidade = "convenio"
	ModalidadeOutro    Modalidade = "outro"
)

// Status is the lifecycle state of a record.
type Status string

const (
	StatusRascunho   Status = "rascunho"
	StatusPublicavel Status = "publicavel"
	StatusPublicada  Status = "publicada"
)

// Conformidade is derived by ComputeCompliance and never set by users.
// ConformidadeErro is accepted as a filter value but no rule produces it.
type Conformidade string

const (
	ConformidadeOK       Conformidade = "ok"
	ConformidadePendente Conformidade = "pendente"
	ConformidadeErro     Conformidade = "erro"
)

type AnuenciaSus string

const (
	AnuenciaSim AnuenciaSus = "sim"
	AnuenciaNao AnuenciaSus = "nao"
	AnuenciaNA  AnuenciaSus = "na"
)

type TipoEvento string

const (
	EventoDisponibilizacao TipoEvento = "DISPONIBILIZAÇÃO"
	EventoEmpenho          TipoEvento = "EMPENHO"
	EventoLiquidacao       TipoEvento = "LIQUIDAÇÃO"
	EventoPagamento        TipoEvento = "PAGAMENTO"
	EventoCadastro         TipoEvento = "CADASTRO"
	EventoPublicacao       TipoEvento = "PUBLICAÇÃO"
)

type Concedente struct {
	Tipo           TipoConcedente `json:"tipo"`
	Nome           string         `json:"nome"`
	DescricaoOutro string         `json:"descricaoOutro,omitempty"`
}

type Recebedor struct {
	Tipo       TipoRecebedor `json:"tipo"`
	Nome       string        `json:"nome"`
	CNPJ       string        `json:"cnpj"`
	Municipio  string        `json:"municipio"`
	UF         string        `json:"uf"`
	CodigoIBGE string        `json:"codigoIbge"`
}

type Objeto struct {
	Tipo      TipoObjeto `json:"tipo"`
	Descricao string     `json:"descricao"`
	GND       GND        `json:"gnd"`
}

type ContaBancaria struct {
	Banco   string `json:"banco,omitempty"`
	Agencia string `json:"agencia,omitempty"`
	Conta   string `json:"conta,omitempty"`
}

type Gestor struct {
	Nome string `json:"nome"`
}

// Evento is a financial event attached to a record. Data is kept as the
// date string the form produced (usually YYYY-MM-DD).
type Evento struct {
	ID         string     `json:"id"`
	Tipo       TipoEvento `json:"tipo"`
	Data       string     `json:"data"`
	Valor      *float64   `json:"valor,omitempty"`
	Observacao string     `json:"observacao,omitempty"`
}

// Input is what the wizard submits: a record without identity, timestamps
// and derived fields.
type Input struct {
	Numero            string         `json:"numero"`
	Exercicio         int            `json:"exercicio"`
	Modalidade        Modalidade     `json:"modalidade,omitempty"`
	Status            Status         `json:"status"`
	Concedente        Concedente     `json:"concedente"`
	Recebedor         Recebedor      `json:"recebedor"`
	Objeto            Objeto         `json:"objeto"`
	ValorIndicado     float64        `json:"valorIndicado"`
	Gestor            Gestor         `json:"gestor"`
	AnuenciaSus       AnuenciaSus    `json:"anuenciaSus"`
	MotivoSemAnuencia string         `json:"motivoSemAnuencia,omitempty"`
	ContaBancaria     *ContaBancaria `json:"contaBancaria,omitempty"`
	Eventos           []Evento       `json:"eventos"`
	CriadoPor         string         `json:"criadoPor,omitempty"`
	AtualizadoPor     string         `json:"atualizadoPor,omitempty"`
}

// Emenda is the stored earmark record.
type Emenda struct {
	ID                   string         `json:"id"`
	Numero               string         `json:"numero"`
	Exercicio            int            `json:"exercicio"`
	Modalidade           Modalidade     `json:"modalidade,omitempty"`
	Status               Status         `json:"status"`
	Conformidade         Conformidade   `json:"conformidade"`
	Concedente           Concedente     `json:"concedente"`
	Recebedor            Recebedor      `json:"recebedor"`
	Objeto               Objeto         `json:"objeto"`
	ValorIndicado        float64        `json:"valorIndicado"`
	ValorDisponibilizado float64        `json:"valorDisponibilizado"`
	Gestor               Gestor         `json:"gestor"`
	AnuenciaSus          AnuenciaSus    `json:"anuenciaSus"`
	MotivoSemAnuencia    string         `json:"motivoSemAnuencia,omitempty"`
	ContaBancaria        *ContaBancaria `json:"contaBancaria,omitempty"`
	Eventos              []Evento       `json:"eventos"`
	CriadoEm             time.Time      `json:"criadoEm"`
	AtualizadoEm         time.Time      `json:"atualizadoEm"`
	CriadoPor            string         `json:"criadoPor,omitempty"`
	AtualizadoPor        string         `json:"atualizadoPor,omitempty"`
}

// Patch is a partial update. A nil field leaves the stored value alone; a
// non-nil nested object replaces its stored counterpart as a whole.
type Patch struct {
	Numero            *string        `json:"numero,omitempty"`
	Exercicio         *int           `json:"exercicio,omitempty"`
	Modalidade        *Modalidade    `json:"modalidade,omitempty"`
	Status            *Status        `json:"status,omitempty"`
	Concedente        *Concedente    `json:"concedente,omitempty"`
	Recebedor         *Recebedor     `json:"recebedor,omitempty"`
	Objeto            *Objeto        `json:"objeto,omitempty"`
	ValorIndicado     *float64       `json:"valorIndicado,omitempty"`
	Gestor            *Gestor        `json:"gestor,omitempty"`
	AnuenciaSus       *AnuenciaSus   `json:"anuenciaSus,omitempty"`
	MotivoSemAnuencia *string        `json:"motivoSemAnuencia,omitempty"`
	ContaBancaria     *ContaBancaria `json:"contaBancaria,omitempty"`
	Eventos           []Evento       `json:"eventos,omitempty"`
	CriadoPor         *string        `json:"criadoPor,omitempty"`
	AtualizadoPor     *string        `json:"atualizadoPor,omitempty"`
}

// Input returns the user-editable part of the record.
func (e Emenda) Input() Input {
	return Input{
		Numero:            e.Numero,
		Exercicio:         e.Exercicio,
		Modalidade:        e.Modalidade,
		Status:            e.Status,
		Concedente:        e.Concedente,
		Recebedor:         e.Recebedor,
		Objeto:            e.Objeto,
		ValorIndicado:     e.ValorIndicado,
		Gestor:            e.Gestor,
		AnuenciaSus:       e.AnuenciaSus,
		MotivoSemAnuencia: e.MotivoSemAnuencia,
		ContaBancaria:     e.ContaBancaria,
		Eventos:           e.Eventos,
		CriadoPor:         e.CriadoPor,
		AtualizadoPor:     e.AtualizadoPor,
	}
}

// FromInput builds a record with no identity or timestamps. Derived fields
// are left for Recompute.
func FromInput(in Input) Emenda {
	return Emenda{
		Numero:            in.Numero,
		Exercicio:         in.Exercicio,
		Modalidade:        in.Modalidade,
		Status:            in.Status,
		Concedente:        in.Concedente,
		Recebedor:         in.Recebedor,
		Objeto:            in.Objeto,
		ValorIndicado:     in.ValorIndicado,
		Gestor:            in.Gestor,
		AnuenciaSus:       in.AnuenciaSus,
		MotivoSemAnuencia: in.MotivoSemAnuencia,
		ContaBancaria:     in.ContaBancaria,
		Eventos:           in.Eventos,
		CriadoPor:         in.CriadoPor,
		AtualizadoPor:     in.AtualizadoPor,
	}
}

// Apply merges p onto e at the top level only.
func (p Patch) Apply(e *Emenda) {
	if p.Numero != nil {
		e.Numero = *p.Numero
	}
	if p.Exercicio != nil {
		e.Exercicio = *p.Exercicio
	}
	if p.Modalidade != nil {
		e.Modalidade = *p.Modalidade
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Concedente != nil {
		e.Concedente = *p.Concedente
	}
	if p.Recebedor != nil {
		e.Recebedor = *p.Recebedor
	}
	if p.Objeto != nil {
		e.Objeto = *p.Objeto
	}
	if p.ValorIndicado != nil {
		e.ValorIndicado = *p.ValorIndicado
	}
	if p.Gestor != nil {
		e.Gestor = *p.Gestor
	}
	if p.AnuenciaSus != nil {
		e.AnuenciaSus = *p.AnuenciaSus
	}
	if p.MotivoSemAnuencia != nil {
		e.MotivoSemAnuencia = *p.MotivoSemAnuencia
	}
	if p.ContaBancaria != nil {
		conta := *p.ContaBancaria
		e.ContaBancaria = &conta
	}
	if p.Eventos != nil {
		e.Eventos = p.Eventos
	}
	if p.CriadoPor != nil {
		e.CriadoPor = *p.CriadoPor
	}
	if p.AtualizadoPor != nil {
		e.AtualizadoPor = *p.AtualizadoPor
	}
}

// ListItem is the summary projection used by listings and exports.
type ListItem struct {
	ID                   string           `json:"id"`
	Numero               string           `json:"numero"`
	Exercicio            int              `json:"exercicio"`
	Concedente           ConcedenteResumo `json:"concedente"`
	Recebedor            RecebedorResumo  `json:"recebedor"`
	Objeto               string           `json:"objeto"`
	GND                  GND              `json:"gnd"`
	ValorIndicado        float64          `json:"valorIndicado"`
	ValorDisponibilizado float64          `json:"valorDisponibilizado"`
	Status               Status           `json:"status"`
	Conformidade         Conformidade     `json:"conformidade"`
}

type ConcedenteResumo struct {
	Tipo TipoConcedente `json:"tipo"`
	Nome string         `json:"nome"`
}

type RecebedorResumo struct {
	Nome      string `json:"nome"`
	Municipio string `json:"municipio"`
	UF        string `json:"uf"`
}

const (
	resumoMaxRunes = 100
	resumoEllipsis = "..."
)

// Summary projects the record into a ListItem, cutting the purpose
// description to 100 characters.
func (e Emenda) Summary() ListItem {
	return ListItem{
		ID:                   e.ID,
		Numero:               e.Numero,
		Exercicio:            e.Exercicio,
		Concedente:           ConcedenteResumo{Tipo: e.Concedente.Tipo, Nome: e.Concedente.Nome},
		Recebedor:            RecebedorResumo{Nome: e.Recebedor.Nome, Municipio: e.Recebedor.Municipio, UF: e.Recebedor.UF},
		Objeto:               truncate(e.Objeto.Descricao, resumoMaxRunes),
		GND:                  e.Objeto.GND,
		ValorIndicado:        e.ValorIndicado,
		ValorDisponibilizado: e.ValorDisponibilizado,
		Status:               e.Status,
		Conformidade:         e.Conformidade,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + resumoEllipsis
}
