package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/farxc/portal-emendas/internal/config"
	"github.com/farxc/portal-emendas/internal/kv"
	"github.com/farxc/portal-emendas/internal/logger"
	"github.com/farxc/portal-emendas/internal/store"
)

func main() {
	const component = "Main"

	cfg, err := config.Load(os.Getenv("EMENDAS_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	appLogger, err := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closer, err := kv.Open(ctx, cfg)
	if err != nil {
		appLogger.Fatal(component, "Failed to open storage: driver=%s err=%v", cfg.Storage.Driver, err)
	}
	defer closer.Close()
	appLogger.Info(component, "Storage ready: driver=%s", cfg.Storage.Driver)

	storage := store.NewStorage(backend, appLogger)

	if cfg.SeedOnStart {
		n, err := storage.Emendas.Seed(ctx, false)
		if err != nil {
			appLogger.Fatal(component, "Failed to seed: err=%v", err)
		}
		appLogger.Info(component, "Seed on start: inserted=%d", n)
	}

	app := &application{
		config: cfg,
		store:  *storage,
		logger: appLogger,
	}

	mux := app.mount()

	if err := app.run(ctx, mux); err != nil {
		appLogger.Fatal(component, "Server stopped: err=%v", err)
	}
}
