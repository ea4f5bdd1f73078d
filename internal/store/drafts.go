package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/farxc/portal-emendas/internal/kv"
)

const componentDrafts = "DraftStore"

var ErrInvalidDraft = errors.New("draft is not valid JSON")

// DraftStore is the single wizard-draft slot. The content is opaque and
// may be any partial form state; the last save wins.
type DraftStore struct {
	c *collection
}

func (s *DraftStore) SaveDraft(ctx context.Context, data json.RawMessage) error {
	if !json.Valid(data) {
		return ErrInvalidDraft
	}
	if err := s.c.kv.Set(ctx, DraftKey, data); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	s.c.log.Debug(componentDrafts, "draft saved: bytes=%d", len(data))
	return nil
}

// LoadDraft reports false when there is no draft or it cannot be read.
func (s *DraftStore) LoadDraft(ctx context.Context) (json.RawMessage, bool) {
	raw, err := s.c.kv.Get(ctx, DraftKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.c.log.Warn(componentDrafts, "failed to read draft: err=%v", err)
		return nil, false
	}
	if !json.Valid(raw) {
		s.c.log.Warn(componentDrafts, "corrupt draft blob ignored: bytes=%d", len(raw))
		return nil, false
	}
	return json.RawMessage(raw), true
}

func (s *DraftStore) ClearDraft(ctx context.Context) error {
	if err := s.c.kv.Remove(ctx, DraftKey); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
