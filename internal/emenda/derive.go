package emenda

import "github.com/shopspring/decimal"

// ComputeDisbursed sums the values of DISPONIBILIZAÇÃO events. Events without
// a value count as zero.
func ComputeDisbursed(eventos []Evento) float64 {
	total := decimal.Zero
	for _, ev := range eventos {
		if ev.Tipo != EventoDisponibilizacao || ev.Valor == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(*ev.Valor))
	}
	f, _ := total.Float64()
	return f
}

// HasDisbursement reports whether at least one DISPONIBILIZAÇÃO event exists.
func HasDisbursement(eventos []Evento) bool {
	for _, ev := range eventos {
		if ev.Tipo == EventoDisponibilizacao {
			return true
		}
	}
	return false
}

// ComputeCompliance returns ok only when the record has a disbursement event,
// a recipient CNPJ and IBGE code, and a purpose description and GND.
func ComputeCompliance(in Input) Conformidade {
	if !HasDisbursement(in.Eventos) {
		return ConformidadePendente
	}
	if in.Recebedor.CNPJ == "" || in.Recebedor.CodigoIBGE == "" {
		return ConformidadePendente
	}
	if in.Objeto.Descricao == "" || in.Objeto.GND == "" {
		return ConformidadePendente
	}
	return ConformidadeOK
}

// Recompute sets both derived fields from the record's current content.
func Recompute(e *Emenda) {
	e.ValorDisponibilizado = ComputeDisbursed(e.Eventos)
	e.Conformidade = ComputeCompliance(e.Input())
}

const (
	PendenciaSemDisponibilizacao = "Sem evento de disponibilização"
	PendenciaRecebedor           = "Dados do recebedor incompletos (CNPJ/código IBGE)"
	PendenciaObjeto              = "Objeto incompleto (descrição/GND)"
	PendenciaValorDivergente     = "Valor disponibilizado divergente"
)

// Pendencias lists why a record needs attention. The first three reasons
// mirror the compliance rule; a disbursed total above the indicated value is
// reported too, although it does not change Conformidade.
func Pendencias(e Emenda) []string {
	var out []string
	if !HasDisbursement(e.Eventos) {
		out = append(out, PendenciaSemDisponibilizacao)
	}
	if e.Recebedor.CNPJ == "" || e.Recebedor.CodigoIBGE == "" {
		out = append(out, PendenciaRecebedor)
	}
	if e.Objeto.Descricao == "" || e.Objeto.GND == "" {
		out = append(out, PendenciaObjeto)
	}
	if decimal.NewFromFloat(e.ValorDisponibilizado).GreaterThan(decimal.NewFromFloat(e.ValorIndicado)) {
		out = append(out, PendenciaValorDivergente)
	}
	return out
}
