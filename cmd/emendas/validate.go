package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/farxc/portal-emendas/internal/emenda"
)

var errInvalidRecord = errors.New("record is invalid")

func (c *cli) validateCmd() *cobra.Command {
	var (
		step    int
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a record stored as JSON",
		Long: `Validate a JSON record file against the wizard rules.

By default every step is checked. --step limits the check to one wizard
step (1-5); --publish adds the publication rule.`,
		Example: `  emendas validate emenda.json
  emendas validate --step 3 emenda.json
  emendas validate --publish emenda.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if step != 0 && publish {
				return fmt.Errorf("--step and --publish cannot be combined")
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var in emenda.Input
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			var fe emenda.FieldErrors
			switch {
			case step != 0:
				fe = emenda.ValidateStep(step, in)
			case publish:
				fe = emenda.ValidateForPublish(in)
			default:
				fe = emenda.ValidateFull(in)
			}

			out := cmd.OutOrStdout()
			if fe.Valid() {
				fmt.Fprintln(out, color.GreenString("✓ valid"))
				return nil
			}
			for _, path := range fe.Paths() {
				fmt.Fprintf(out, "%s %s: %s\n", color.RedString("✗"), path, fe[path])
			}
			return errInvalidRecord
		},
	}
	cmd.Flags().IntVar(&step, "step", 0, "validate only this wizard step (1-5)")
	cmd.Flags().BoolVar(&publish, "publish", false, "also require a DISPONIBILIZAÇÃO event")

	return cmd
}
