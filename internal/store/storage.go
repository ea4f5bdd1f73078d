package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/kv"
	"github.com/farxc/portal-emendas/internal/logger"
)

const (
	RecordsKey = "emendas_mpc_mg"
	DraftKey   = "emenda_draft_mpc_mg"
)

type Storage struct {
	Emendas interface {
		List(ctx context.Context, f Filters, p Pagination) PaginatedResult[emenda.ListItem]
		GetByID(ctx context.Context, id string) *emenda.Emenda
		Create(ctx context.Context, in emenda.Input) (*emenda.Emenda, error)
		Update(ctx context.Context, id string, patch emenda.Patch) (*emenda.Emenda, error)
		Delete(ctx context.Context, id string) (bool, error)
		Duplicate(ctx context.Context, id string) (*emenda.Emenda, error)
		ExportCSV(ctx context.Context, f Filters) (string, error)
		ExportJSON(ctx context.Context, f Filters) (string, error)
		Seed(ctx context.Context, force bool) (int, error)
		Clear(ctx context.Context) error
	}

	Drafts interface {
		SaveDraft(ctx context.Context, data json.RawMessage) error
		LoadDraft(ctx context.Context) (json.RawMessage, bool)
		ClearDraft(ctx context.Context) error
	}

	Stats interface {
		Summary(ctx context.Context, f Filters) (Summary, error)
	}
}

type Option func(*collection)

// WithClock replaces time.Now for timestamping.
func WithClock(now func() time.Time) Option {
	return func(c *collection) { c.now = now }
}

// WithIDGenerator replaces the uuid generator used for records and events.
func WithIDGenerator(newID func() string) Option {
	return func(c *collection) { c.newID = newID }
}

func NewStorage(store kv.Store, log *logger.Logger, opts ...Option) *Storage {
	c := newCollection(store, log, opts...)
	return &Storage{
		Emendas: &EmendaStore{c: c},
		Drafts:  &DraftStore{c: c},
		Stats:   &StatsStore{c: c},
	}
}
