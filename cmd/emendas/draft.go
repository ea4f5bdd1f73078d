package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/farxc/portal-emendas/internal/store"
)

func (c *cli) draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage the wizard draft slot",
	}

	cmd.AddCommand(c.draftSaveCmd())
	cmd.AddCommand(c.draftLoadCmd())
	cmd.AddCommand(c.draftClearCmd())
	cmd.AddCommand(c.draftAutosaveCmd())

	return cmd
}

func (c *cli) draftSaveCmd() *cobra.Command {
	return needsStorage(&cobra.Command{
		Use:   "save FILE",
		Short: "Store a JSON file as the draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := c.storage.Drafts.SaveDraft(cmd.Context(), raw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Draft saved"))
			return nil
		},
	})
}

func (c *cli) draftLoadCmd() *cobra.Command {
	return needsStorage(&cobra.Command{
		Use:   "load",
		Short: "Print the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, ok := c.storage.Drafts.LoadDraft(cmd.Context())
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("No draft saved"))
				return nil
			}
			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("stored draft is not valid JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	})
}

func (c *cli) draftClearCmd() *cobra.Command {
	return needsStorage(&cobra.Command{
		Use:   "clear",
		Short: "Remove the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.storage.Drafts.ClearDraft(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Draft cleared"))
			return nil
		},
	})
}

func (c *cli) draftAutosaveCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "autosave FILE",
		Short: "Keep saving a form-state file as the draft until interrupted",
		Long: `Watch FILE and store its content as the draft every interval, skipping
unchanged or invalid content. Stops on Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const component = "DraftAutosave"
			path := args[0]

			snapshot := func() (json.RawMessage, bool) {
				raw, err := os.ReadFile(path)
				if err != nil || !json.Valid(raw) {
					return nil, false
				}
				return raw, true
			}

			if interval <= 0 {
				interval = c.cfg.AutosaveInterval
			}
			if interval <= 0 {
				return fmt.Errorf("autosave interval must be positive, got %s", interval)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			saver := store.NewAutoSaver(c.storage, snapshot, c.logger)
			saver.SaveNow(ctx)
			saver.Start(ctx, interval)
			c.logger.Info(component, "Autosave started: file=%s interval=%s", path, interval)

			<-ctx.Done()
			stats := saver.Stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Autosave stopped: saves=%d skipped=%d failures=%d\n",
				stats.Saves, stats.Skipped, stats.Failures)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between saves (defaults to AUTOSAVE_INTERVAL)")

	return needsStorage(cmd)
}
