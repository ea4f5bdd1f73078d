package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/masks"
	"github.com/farxc/portal-emendas/internal/store"
)

type filterFlags struct {
	search         string
	exercicio      int
	tipoConcedente string
	gnd            string
	status         string
	conformidade   string
	municipio      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "substring of numero, descricao, concedente or municipio")
	cmd.Flags().IntVar(&f.exercicio, "exercicio", 0, "fiscal year")
	cmd.Flags().StringVar(&f.tipoConcedente, "tipo-concedente", "", "parlamentar, bancada, comissao or outro")
	cmd.Flags().StringVar(&f.gnd, "gnd", "", "gnd3, gnd4 or outro")
	cmd.Flags().StringVar(&f.status, "status", "", "rascunho, publicavel or publicada")
	cmd.Flags().StringVar(&f.conformidade, "conformidade", "", "ok, pendente or erro")
	cmd.Flags().StringVar(&f.municipio, "municipio", "", "recipient municipality")
}

func (f *filterFlags) filters() store.Filters {
	return store.Filters{
		Search:         f.search,
		Exercicio:      f.exercicio,
		TipoConcedente: emenda.TipoConcedente(f.tipoConcedente),
		GND:            emenda.GND(f.gnd),
		Status:         emenda.Status(f.status),
		Conformidade:   emenda.Conformidade(f.conformidade),
		Municipio:      f.municipio,
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo records",
		Long: `Load the demo records into an empty store.

With --force the stored records are replaced even when some exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.storage.Emendas.Seed(cmd.Context(), force)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Records already exist, nothing seeded (use --force to replace them)"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Seeded %d records", n))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing records")

	return needsStorage(cmd)
}

func (c *cli) clearCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.storage.Emendas.Clear(ctx); err != nil {
				return err
			}
			if all {
				if err := c.storage.Drafts.ClearDraft(ctx); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Records removed"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also clear the wizard draft")

	return needsStorage(cmd)
}

func conformidadeColor(c emenda.Conformidade) string {
	switch c {
	case emenda.ConformidadeOK:
		return color.GreenString(string(c))
	case emenda.ConformidadePendente:
		return color.YellowString(string(c))
	default:
		return color.RedString(string(c))
	}
}

func (c *cli) listCmd() *cobra.Command {
	var (
		ff       filterFlags
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Example: `  emendas list
  emendas list --exercicio 2024 --status publicada
  emendas list --search "belo horizonte" --page 2 --page-size 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.storage.Emendas.List(cmd.Context(), ff.filters(), store.Pagination{Page: page, PageSize: pageSize})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NÚMERO\tEXERCÍCIO\tCONCEDENTE\tMUNICÍPIO\tINDICADO\tDISPONIBILIZADO\tSTATUS\tCONFORMIDADE\tID")
			for _, it := range res.Data {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s/%s\t%s\t%s\t%s\t%s\t%s\n",
					it.Numero, it.Exercicio, it.Concedente.Nome, it.Recebedor.Municipio, it.Recebedor.UF,
					masks.FormatCurrency(it.ValorIndicado), masks.FormatCurrency(it.ValorDisponibilizado),
					it.Status, conformidadeColor(it.Conformidade), it.ID)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d records)\n", res.Page, res.TotalPages, res.Total)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", store.DefaultPageSize, "records per page")

	return needsStorage(cmd)
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		ff     filterFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching records as CSV or JSON",
		Example: `  emendas export --format csv --output emendas.csv
  emendas export --format json --conformidade pendente`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				out string
				err error
			)
			switch format {
			case "csv":
				out, err = c.storage.Emendas.ExportCSV(ctx, ff.filters())
			case "json":
				out, err = c.storage.Emendas.ExportJSON(ctx, ff.filters())
			default:
				return fmt.Errorf("unknown format %q (use csv or json)", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("Exported to %s", output))
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return needsStorage(cmd)
}
