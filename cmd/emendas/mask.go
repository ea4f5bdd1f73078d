package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/farxc/portal-emendas/internal/masks"
)

var maskers = map[string]func(string) string{
	"cnpj":    masks.MaskCnpj,
	"ibge":    masks.MaskCodigoIbge,
	"numero":  masks.MaskNumeroEmenda,
	"agencia": masks.MaskAgencia,
	"conta":   masks.MaskConta,
	"date":    masks.FormatDate,
	"currency": func(v string) string {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			// Typed-in masked value, read as cents.
			f = masks.UnmaskCurrency(v)
		}
		return masks.FormatCurrency(f)
	},
}

func maskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mask KIND VALUE",
		Short: "Apply a form input mask to a value",
		Long: `Apply one of the form input masks to VALUE.

KIND is one of: cnpj, ibge, numero, agencia, conta, currency, date.`,
		Example: `  emendas mask cnpj 18715383000140
  emendas mask numero 8472024
  emendas mask currency 1500000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, ok := maskers[args[0]]
			if !ok {
				return fmt.Errorf("unknown mask %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), fn(args[1]))
			return nil
		},
	}
}
