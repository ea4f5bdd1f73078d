package store

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"

	"github.com/farxc/portal-emendas/internal/emenda"
)

const componentStats = "StatsStore"

type StatsStore struct {
	c *collection
}

type ExercicioSummary struct {
	Exercicio            int     `json:"exercicio"`
	Quantidade           int     `json:"quantidade"`
	ValorIndicado        float64 `json:"valorIndicado"`
	ValorDisponibilizado float64 `json:"valorDisponibilizado"`
}

// Pendencia is a record that needs attention, with the reasons why.
type Pendencia struct {
	ID           string   `json:"id"`
	Numero       string   `json:"numero"`
	Concedente   string   `json:"concedente"`
	Municipio    string   `json:"municipio"`
	Motivos      []string `json:"motivos"`
	DiasPendente int      `json:"diasPendente"`
}

type Summary struct {
	Total                int                         `json:"total"`
	Conformes            int                         `json:"conformes"`
	Pendentes            int                         `json:"pendentes"`
	Municipios           int                         `json:"municipios"`
	PorStatus            map[emenda.Status]int       `json:"porStatus"`
	PorConformidade      map[emenda.Conformidade]int `json:"porConformidade"`
	ValorIndicado        float64                     `json:"valorIndicado"`
	ValorDisponibilizado float64                     `json:"valorDisponibilizado"`
	PorExercicio         []ExercicioSummary          `json:"porExercicio"`
	Pendencias           []Pendencia                 `json:"pendencias"`
}

type statRow struct {
	Numero               string  `dataframe:"numero"`
	Exercicio            int     `dataframe:"exercicio"`
	Municipio            string  `dataframe:"municipio"`
	Status               string  `dataframe:"status"`
	Conformidade         string  `dataframe:"conformidade"`
	ValorIndicado        float64 `dataframe:"valor_indicado"`
	ValorDisponibilizado float64 `dataframe:"valor_disponibilizado"`
}

func cents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Summary aggregates the records matching f for the back-office dashboard.
func (s *StatsStore) Summary(ctx context.Context, f Filters) (Summary, error) {
	records := filter(s.c.load(ctx), f)

	out := Summary{
		Total:           len(records),
		PorStatus:       map[emenda.Status]int{},
		PorConformidade: map[emenda.Conformidade]int{},
		PorExercicio:    []ExercicioSummary{},
		Pendencias:      []Pendencia{},
	}
	if len(records) == 0 {
		return out, nil
	}

	rows := make([]statRow, 0, len(records))
	for _, e := range records {
		rows = append(rows, statRow{
			Numero:               e.Numero,
			Exercicio:            e.Exercicio,
			Municipio:            e.Recebedor.Municipio,
			Status:               string(e.Status),
			Conformidade:         string(e.Conformidade),
			ValorIndicado:        e.ValorIndicado,
			ValorDisponibilizado: e.ValorDisponibilizado,
		})
	}

	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		return Summary{}, fmt.Errorf("failed to load stats frame: %w", df.Err)
	}

	for _, st := range df.Col("status").Records() {
		out.PorStatus[emenda.Status(st)]++
	}
	for _, c := range df.Col("conformidade").Records() {
		out.PorConformidade[emenda.Conformidade(c)]++
	}
	out.Conformes = out.PorConformidade[emenda.ConformidadeOK]
	out.Pendentes = out.PorConformidade[emenda.ConformidadePendente]

	municipios := map[string]struct{}{}
	for _, m := range df.Col("municipio").Records() {
		if m != "" {
			municipios[m] = struct{}{}
		}
	}
	out.Municipios = len(municipios)
	out.ValorIndicado = cents(df.Col("valor_indicado").Sum())
	out.ValorDisponibilizado = cents(df.Col("valor_disponibilizado").Sum())

	byYear, err := s.byExercicio(df)
	if err != nil {
		return Summary{}, err
	}
	out.PorExercicio = byYear

	now := s.c.timestamp()
	for _, e := range records {
		motivos := emenda.Pendencias(e)
		if len(motivos) == 0 {
			continue
		}
		out.Pendencias = append(out.Pendencias, Pendencia{
			ID:           e.ID,
			Numero:       e.Numero,
			Concedente:   e.Concedente.Nome,
			Municipio:    e.Recebedor.Municipio,
			Motivos:      motivos,
			DiasPendente: int(now.Sub(e.AtualizadoEm).Hours() / 24),
		})
	}

	s.c.log.Debug(componentStats, "summary computed: total=%d pendencias=%d", out.Total, len(out.Pendencias))
	return out, nil
}

func (s *StatsStore) byExercicio(df dataframe.DataFrame) ([]ExercicioSummary, error) {
	groups := df.GroupBy("exercicio")
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by exercicio: %w", groups.Err)
	}

	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT, dataframe.Aggregation_SUM, dataframe.Aggregation_SUM},
		[]string{"numero", "valor_indicado", "valor_disponibilizado"},
	).Arrange(dataframe.Sort("exercicio"))
	if agg.Err != nil {
		return nil, fmt.Errorf("failed to aggregate by exercicio: %w", agg.Err)
	}

	years, err := agg.Col("exercicio").Int()
	if err != nil {
		return nil, fmt.Errorf("failed to read exercicio column: %w", err)
	}
	counts := agg.Col("numero_COUNT").Float()
	indicado := agg.Col("valor_indicado_SUM").Float()
	disponibilizado := agg.Col("valor_disponibilizado_SUM").Float()

	out := make([]ExercicioSummary, 0, len(years))
	for i, year := range years {
		out = append(out, ExercicioSummary{
			Exercicio:            year,
			Quantidade:           int(counts[i]),
			ValorIndicado:        cents(indicado[i]),
			ValorDisponibilizado: cents(disponibilizado[i]),
		})
	}
	return out, nil
}
