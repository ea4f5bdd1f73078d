package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/portal-emendas/internal/logger"
)

func TestDraftLifecycle(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	_, ok := s.Drafts.LoadDraft(ctx)
	assert.False(t, ok)

	require.NoError(t, s.Drafts.SaveDraft(ctx, json.RawMessage(`{"numero":"84","step":1}`)))
	require.NoError(t, s.Drafts.SaveDraft(ctx, json.RawMessage(`{"numero":"847/2024","step":2}`)))

	got, ok := s.Drafts.LoadDraft(ctx)
	require.True(t, ok)
	assert.JSONEq(t, `{"numero":"847/2024","step":2}`, string(got), "last write wins")

	require.NoError(t, s.Drafts.ClearDraft(ctx))
	_, ok = s.Drafts.LoadDraft(ctx)
	assert.False(t, ok)
	require.NoError(t, s.Drafts.ClearDraft(ctx), "clearing twice is fine")
}

func TestDraftIsSeparateFromRecords(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, s.Drafts.SaveDraft(ctx, json.RawMessage(`[1,2,3]`)))

	assert.Zero(t, s.Emendas.List(ctx, Filters{}, Pagination{}).Total)
}

func TestSaveDraftRejectsInvalidJSON(t *testing.T) {
	s, _ := newTestStorage(t)
	assert.ErrorIs(t, s.Drafts.SaveDraft(context.Background(), json.RawMessage(`{"a":`)), ErrInvalidDraft)
}

func TestLoadDraftDegrades(t *testing.T) {
	s, mem := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, DraftKey, []byte("garbage")))

	_, ok := s.Drafts.LoadDraft(ctx)
	assert.False(t, ok)

	broken := NewStorage(brokenKV{getErr: errBackend, setErr: errBackend}, logger.Nop())
	_, ok = broken.Drafts.LoadDraft(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, broken.Drafts.SaveDraft(ctx, json.RawMessage(`{}`)), errBackend)
}
