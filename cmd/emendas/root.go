package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/farxc/portal-emendas/internal/config"
	"github.com/farxc/portal-emendas/internal/kv"
	"github.com/farxc/portal-emendas/internal/logger"
	"github.com/farxc/portal-emendas/internal/store"
)

// session is what the storage-backed commands work on.
type session struct {
	cfg     config.Config
	storage *store.Storage
	logger  *logger.Logger
	closer  io.Closer
}

type opener func(ctx context.Context, configPath string) (*session, error)

func openStorage(ctx context.Context, configPath string) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	appLogger, err := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	backend, closer, err := kv.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		storage: store.NewStorage(backend, appLogger),
		logger:  appLogger,
		closer:  closer,
	}, nil
}

type cli struct {
	open       opener
	configPath string

	*session
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open}

	rootCmd := &cobra.Command{
		Use:   "emendas",
		Short: "Operator tool for the emendas parlamentares back office",
		Long: `emendas manages the earmark records store: seeding demo data, listing,
exporting, validating record files and handling the wizard draft.

The storage backend is chosen by STORAGE_DRIVER (or the YAML file given
with --config), the same way the API server does it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["storage"] != "required" {
				return nil
			}
			sess, err := c.open(cmd.Context(), c.configPath)
			if err != nil {
				return err
			}
			c.session = sess
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.session == nil {
				return nil
			}
			_ = c.logger.Sync()
			return c.closer.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("EMENDAS_CONFIG"), "path to a YAML config file")

	rootCmd.AddCommand(c.seedCmd())
	rootCmd.AddCommand(c.clearCmd())
	rootCmd.AddCommand(c.listCmd())
	rootCmd.AddCommand(c.exportCmd())
	rootCmd.AddCommand(c.validateCmd())
	rootCmd.AddCommand(c.draftCmd())
	rootCmd.AddCommand(maskCmd())

	return rootCmd
}

// needsStorage marks a command so the root opens the backend before it runs.
func needsStorage(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations["storage"] = "required"
	return cmd
}
