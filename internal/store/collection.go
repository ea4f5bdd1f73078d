package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farxc/portal-emendas/internal/emenda"
	"github.com/farxc/portal-emendas/internal/kv"
	"github.com/farxc/portal-emendas/internal/logger"
)

// collection is the persisted record list shared by the stores. Every read
// decodes the blob fresh; every write re-encodes the whole list. mu
// serialises read-modify-write sequences inside one process.
type collection struct {
	mu    sync.Mutex
	kv    kv.Store
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func newCollection(store kv.Store, log *logger.Logger, opts ...Option) *collection {
	if log == nil {
		log = logger.Nop()
	}
	c := &collection{
		kv:    store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *collection) timestamp() time.Time {
	return c.now().UTC()
}

// load never fails: a missing key, a backend error or a corrupt blob all
// read as an empty collection.
func (c *collection) load(ctx context.Context) []emenda.Emenda {
	raw, err := c.kv.Get(ctx, RecordsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []emenda.Emenda{}
	}
	if err != nil {
		c.log.Warn(componentEmendas, "failed to read records, treating as empty: key=%s err=%v", RecordsKey, err)
		return []emenda.Emenda{}
	}

	var records []emenda.Emenda
	if err := json.Unmarshal(raw, &records); err != nil {
		c.log.Warn(componentEmendas, "corrupt records blob, treating as empty: key=%s err=%v", RecordsKey, err)
		return []emenda.Emenda{}
	}
	if records == nil {
		records = []emenda.Emenda{}
	}
	return records
}

func (c *collection) save(ctx context.Context, records []emenda.Emenda) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := c.kv.Set(ctx, RecordsKey, raw); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}
	return nil
}
