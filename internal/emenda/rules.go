package emenda

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var (
	numeroRegex     = regexp.MustCompile(`^\d+/\d{4}$`)
	cnpjRegex       = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	codigoIbgeRegex = regexp.MustCompile(`^\d{7}$`)
)

const (
	ExercicioMin = 2020
	ExercicioMax = 2030
)

// rule inspects the input and records failures on fe. It reports aborted
// when a value is outside its enum, which stops the cross-field rules that
// depend on it. Length, pattern and range failures do not abort.
type rule func(in *Input, fe FieldErrors) (aborted bool)

// stringCheck returns a message when s is invalid, or "".
type stringCheck func(s string) string

func minLen(n int, msg string) stringCheck {
	return func(s string) string {
		if utf8.RuneCountInString(s) < n {
			return msg
		}
		return ""
	}
}

func maxLen(n int, msg string) stringCheck {
	return func(s string) string {
		if utf8.RuneCountInString(s) > n {
			return msg
		}
		return ""
	}
}

func exactLen(n int, msg string) stringCheck {
	return func(s string) string {
		if utf8.RuneCountInString(s) != n {
			return msg
		}
		return ""
	}
}

func matches(re *regexp.Regexp, msg string) stringCheck {
	return func(s string) string {
		if !re.MatchString(s) {
			return msg
		}
		return ""
	}
}

func oneOf[T ~string](msg string, allowed ...T) stringCheck {
	return func(s string) string {
		for _, a := range allowed {
			if string(a) == s {
				return ""
			}
		}
		return msg
	}
}

func str(path string, get func(in *Input) string, checks ...stringCheck) rule {
	return func(in *Input, fe FieldErrors) bool {
		v := get(in)
		for _, c := range checks {
			if msg := c(v); msg != "" {
				fe.Add(path, msg)
				return false
			}
		}
		return false
	}
}

// enum accepts only the allowed values. An empty value is accepted when
// optional is set.
func enum[T ~string](path string, get func(in *Input) T, optional bool, msg string, allowed ...T) rule {
	check := oneOf(msg, allowed...)
	return func(in *Input, fe FieldErrors) bool {
		v := string(get(in))
		if optional && v == "" {
			return false
		}
		if m := check(v); m != "" {
			fe.Add(path, m)
			return true
		}
		return false
	}
}

func intRange(path string, get func(in *Input) int, lo, hi int, msg string) rule {
	return func(in *Input, fe FieldErrors) bool {
		if v := get(in); v < lo || v > hi {
			fe.Add(path, msg)
		}
		return false
	}
}

func positive(path string, get func(in *Input) float64, msg string) rule {
	return func(in *Input, fe FieldErrors) bool {
		if get(in) <= 0 {
			fe.Add(path, msg)
		}
		return false
	}
}

// refine attaches msg to path when cond does not hold.
func refine(path string, cond func(in *Input) bool, msg string) rule {
	return func(in *Input, fe FieldErrors) bool {
		if !cond(in) {
			fe.Add(path, msg)
		}
		return false
	}
}

var tipoEvento = oneOf("Tipo de evento inválido", EventoDisponibilizacao, EventoEmpenho, EventoLiquidacao,
	EventoPagamento, EventoCadastro, EventoPublicacao)

func eventos(minCount int) rule {
	return func(in *Input, fe FieldErrors) bool {
		aborted := false
		if len(in.Eventos) < minCount {
			fe.Add("eventos", "Ao menos um evento é obrigatório")
		}
		for i, ev := range in.Eventos {
			prefix := fmt.Sprintf("eventos.%d.", i)
			if msg := tipoEvento(string(ev.Tipo)); msg != "" {
				fe.Add(prefix+"tipo", msg)
				aborted = true
			}
			if ev.Data == "" {
				fe.Add(prefix+"data", "Data é obrigatória")
			}
			if ev.Valor != nil && *ev.Valor < 0 {
				fe.Add(prefix+"valor", "Valor deve ser positivo")
			}
			if msg := maxLen(500, "Observação muito longa")(ev.Observacao); msg != "" {
				fe.Add(prefix+"observacao", msg)
			}
		}
		return aborted
	}
}

// section groups the field rules of one wizard step. Refinements are
// cross-field rules scoped to the section: they are skipped when one of its
// enum fields is invalid. Form refinements behave the same when a single
// step is checked, but on the whole form they are skipped when any enum
// field of any step is invalid.
type section struct {
	title           string
	rules           []rule
	refinements     []rule
	formRefinements []rule
}

// validate runs the field rules and the section refinements, and reports
// whether an enum field aborted the section.
func (s section) validate(in *Input, fe FieldErrors) bool {
	aborted := false
	for _, r := range s.rules {
		if r(in, fe) {
			aborted = true
		}
	}
	if !aborted {
		for _, r := range s.refinements {
			r(in, fe)
		}
	}
	return aborted
}

func runAll(rules []rule, in *Input, fe FieldErrors) {
	for _, r := range rules {
		r(in, fe)
	}
}

var identificacao = section{
	title: "Identificação",
	rules: []rule{
		str("numero", func(in *Input) string { return in.Numero },
			minLen(1, "Número da emenda é obrigatório"),
			matches(numeroRegex, "Formato inválido. Use: 000/0000")),
		intRange("exercicio", func(in *Input) int { return in.Exercicio },
			ExercicioMin, ExercicioMax, "Exercício inválido"),
		enum("modalidade", func(in *Input) Modalidade { return in.Modalidade }, true,
			"Modalidade inválida", ModalidadeEspecial, ModalidadeFundo, ModalidadeConvenio, ModalidadeOutro),
		enum("status", func(in *Input) Status { return in.Status }, false,
			"Status inválido", StatusRascunho, StatusPublicavel, StatusPublicada),
	},
}

var concedente = section{
	title: "Concedente",
	rules: []rule{
		enum("concedente.tipo", func(in *Input) TipoConcedente { return in.Concedente.Tipo }, false,
			"Tipo de concedente inválido", ConcedenteParlamentar, ConcedenteBancada, ConcedenteComissao, ConcedenteOutro),
		str("concedente.nome", func(in *Input) string { return in.Concedente.Nome },
			minLen(1, "Nome do concedente é obrigatório"),
			maxLen(200, "Nome muito longo")),
	},
	refinements: []rule{
		refine("concedente.descricaoOutro", func(in *Input) bool {
			return in.Concedente.Tipo != ConcedenteOutro || in.Concedente.DescricaoOutro != ""
		}, `Descrição é obrigatória quando tipo é "outro"`),
	},
}

var recebedor = section{
	title: "Recebedor",
	rules: []rule{
		enum("recebedor.tipo", func(in *Input) TipoRecebedor { return in.Recebedor.Tipo }, false,
			"Tipo de recebedor inválido", RecebedorPrefeitura, RecebedorEstado, RecebedorONG, RecebedorOutro),
		str("recebedor.nome", func(in *Input) string { return in.Recebedor.Nome },
			minLen(1, "Nome/Razão Social é obrigatório"),
			maxLen(200, "Nome muito longo")),
		str("recebedor.cnpj", func(in *Input) string { return in.Recebedor.CNPJ },
			minLen(1, "CNPJ é obrigatório"),
			matches(cnpjRegex, "CNPJ deve estar no formato 00.000.000/0000-00")),
		str("recebedor.municipio", func(in *Input) string { return in.Recebedor.Municipio },
			minLen(1, "Município é obrigatório"),
			maxLen(100, "Nome muito longo")),
		str("recebedor.uf", func(in *Input) string { return in.Recebedor.UF },
			exactLen(2, "UF deve ter 2 caracteres")),
		str("recebedor.codigoIbge", func(in *Input) string { return in.Recebedor.CodigoIBGE },
			minLen(1, "Código IBGE é obrigatório"),
			matches(codigoIbgeRegex, "Código IBGE deve ter 7 dígitos")),
	},
}

var objeto = section{
	title: "Objeto",
	rules: []rule{
		enum("objeto.tipo", func(in *Input) TipoObjeto { return in.Objeto.Tipo }, false,
			"Tipo de objeto inválido", ObjetoSaude, ObjetoEducacao, ObjetoInfraestrutura,
			ObjetoAssistencia, ObjetoCultura, ObjetoEsporte, ObjetoOutro),
		str("objeto.descricao", func(in *Input) string { return in.Objeto.Descricao },
			minLen(10, "Descrição do objeto deve ter no mínimo 10 caracteres"),
			maxLen(2000, "Descrição muito longa")),
		enum("objeto.gnd", func(in *Input) GND { return in.Objeto.GND }, false,
			"GND inválido", GND3, GND4, GNDOutro),
		positive("valorIndicado", func(in *Input) float64 { return in.ValorIndicado },
			"Valor indicado deve ser maior que zero"),
		str("gestor.nome", func(in *Input) string { return in.Gestor.Nome },
			minLen(1, "Nome do gestor é obrigatório"),
			maxLen(200, "Nome muito longo")),
		enum("anuenciaSus", func(in *Input) AnuenciaSus { return in.AnuenciaSus }, false,
			"Anuência SUS inválida", AnuenciaSim, AnuenciaNao, AnuenciaNA),
	},
	formRefinements: []rule{
		refine("motivoSemAnuencia", func(in *Input) bool {
			return in.AnuenciaSus != AnuenciaNao || in.MotivoSemAnuencia != ""
		}, `Motivo é obrigatório quando Anuência SUS é "Não"`),
	},
}

var contaEventos = section{
	title: "Conta e Eventos",
	rules: []rule{eventos(1)},
}

var publicacao = refine("eventos", func(in *Input) bool {
	return HasDisbursement(in.Eventos)
}, "É obrigatório ter ao menos um evento de DISPONIBILIZAÇÃO para publicar")

// steps is indexed by wizard step number minus one.
var steps = []section{identificacao, concedente, recebedor, objeto, contaEventos}
