package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/farxc/portal-emendas/internal/logger"
)

type AutoSaveStats struct {
	Saves    int
	Skipped  int
	Failures int
}

// Snapshot returns the current form state, or false when there is nothing
// to save yet.
type Snapshot func() (json.RawMessage, bool)

// AutoSaver periodically writes the caller's form state to the draft slot.
// Unchanged snapshots are not written again.
type AutoSaver struct {
	drafts interface {
		SaveDraft(ctx context.Context, data json.RawMessage) error
	}
	snapshot Snapshot
	log      *logger.Logger

	mu      sync.Mutex
	stats   AutoSaveStats
	last    []byte
	started bool

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewAutoSaver(s *Storage, snapshot Snapshot, log *logger.Logger) *AutoSaver {
	if log == nil {
		log = logger.Nop()
	}
	return &AutoSaver{
		drafts:   s.Drafts,
		snapshot: snapshot,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the save loop every interval until Stop is called or ctx is
// done. It must be called at most once.
func (a *AutoSaver) Start(ctx context.Context, interval time.Duration) {
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()

	go func() {
		defer close(a.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				a.SaveNow(ctx)
			case <-a.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// SaveNow takes one snapshot and saves it if it changed.
func (a *AutoSaver) SaveNow(ctx context.Context) {
	const component = "AutoSaver"

	data, ok := a.snapshot()

	a.mu.Lock()
	defer a.mu.Unlock()

	if !ok || bytes.Equal(data, a.last) {
		a.stats.Skipped++
		return
	}
	if err := a.drafts.SaveDraft(ctx, data); err != nil {
		a.stats.Failures++
		a.log.Warn(component, "draft autosave failed: err=%v", err)
		return
	}
	a.last = append(a.last[:0], data...)
	a.stats.Saves++
	a.log.Debug(component, "draft autosaved: bytes=%d saves=%d", len(data), a.stats.Saves)
}

// Stop ends the loop started by Start, waits for it and returns the
// counters. It is safe to call more than once.
func (a *AutoSaver) Stop() AutoSaveStats {
	a.once.Do(func() { close(a.stop) })

	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if started {
		<-a.done
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
