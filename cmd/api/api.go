package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/farxc/portal-emendas/internal/config"
	"github.com/farxc/portal-emendas/internal/logger"
	"github.com/farxc/portal-emendas/internal/store"
)

const version = "0.1.0"

type application struct {
	config config.Config
	store  store.Storage
	logger *logger.Logger
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/emendas", func(r chi.Router) {
			r.Get("/", app.handleListEmendas)
			r.Post("/", app.handleCreateEmenda)
			r.Get("/export.csv", app.handleExportCSV)
			r.Get("/export.json", app.handleExportJSON)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.handleGetEmenda)
				r.Patch("/", app.handleUpdateEmenda)
				r.Delete("/", app.handleDeleteEmenda)
				r.Post("/duplicate", app.handleDuplicateEmenda)
			})
		})
		r.Route("/validation", func(r chi.Router) {
			r.Post("/steps/{step}", app.handleValidateStep)
			r.Post("/full", app.handleValidateFull)
			r.Post("/publish", app.handleValidatePublish)
		})
		r.Route("/draft", func(r chi.Router) {
			r.Get("/", app.handleLoadDraft)
			r.Put("/", app.handleSaveDraft)
			r.Delete("/", app.handleClearDraft)
		})
		r.Get("/stats", app.handleGetStats)
	})

	return r
}

// run serves until ctx is cancelled, then drains in-flight requests.
func (app *application) run(ctx context.Context, mux http.Handler) error {
	const component = "API"

	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(component, "Server started: addr=%s storage=%s", app.config.Addr, app.config.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(component, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
