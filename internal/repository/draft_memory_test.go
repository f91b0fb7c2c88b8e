package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proximart/webclient/internal/model"
)

func TestMemoryDraftStore_OverwritesPerItem(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)
	key := model.DraftKey{SessionID: "s1", SupplierID: "sup1"}

	require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{
		{Item: "Rice", Quantity: 5},
		{Item: "Dal", Quantity: 2},
	}))
	require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{{Item: "Rice", Quantity: 3}}))

	draft, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, model.DraftSelection{"Rice": 3, "Dal": 2}, draft)
}

func TestMemoryDraftStore_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)

	a := model.DraftKey{SessionID: "s1", SupplierID: "sup1"}
	b := model.DraftKey{SessionID: "s1", SupplierID: "sup2"}
	c := model.DraftKey{SessionID: "s2", SupplierID: "sup1"}

	require.NoError(t, store.SetQuantities(ctx, a, []model.DraftEdit{{Item: "Rice", Quantity: 1}}))

	for _, key := range []model.DraftKey{b, c} {
		draft, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, draft)
		assert.NotNil(t, draft)
	}
}

func TestMemoryDraftStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Minute)
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	key := model.DraftKey{SessionID: "s1", SupplierID: "sup1"}

	require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{{Item: "Rice", Quantity: 4}}))

	now = now.Add(30 * time.Second)
	draft, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 4, draft["Rice"])

	now = now.Add(time.Minute)
	draft, err = store.Load(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, draft)

	// An edit after expiry starts a fresh draft.
	require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{{Item: "Dal", Quantity: 1}}))
	draft, err = store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, model.DraftSelection{"Dal": 1}, draft)
}

func TestMemoryDraftStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)
	key := model.DraftKey{SessionID: "s1", SupplierID: "sup1"}

	require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{{Item: "Rice", Quantity: 4}}))
	draft, _ := store.Load(ctx, key)
	draft["Rice"] = 99

	again, _ := store.Load(ctx, key)
	assert.Equal(t, 4, again["Rice"])
}

func TestMemoryDraftStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)
	key := model.DraftKey{SessionID: "s1", SupplierID: "sup1"}

	require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{{Item: "Rice", Quantity: 4}}))
	require.NoError(t, store.Clear(ctx, key))

	draft, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, draft)
}

func TestMemoryDraftStore_SweepsExpiredDrafts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Minute)
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		key := model.DraftKey{SessionID: fmt.Sprintf("s%d", i), SupplierID: "sup1"}
		require.NoError(t, store.SetQuantities(ctx, key, []model.DraftEdit{{Item: "Rice", Quantity: 1}}))
	}
	require.Len(t, store.drafts, 1000)

	now = now.Add(48 * time.Hour)
	live := model.DraftKey{SessionID: "fresh", SupplierID: "sup1"}
	require.NoError(t, store.SetQuantities(ctx, live, []model.DraftEdit{{Item: "Dal", Quantity: 2}}))

	assert.Len(t, store.drafts, 1)
	draft, err := store.Load(ctx, live)
	require.NoError(t, err)
	assert.Equal(t, model.DraftSelection{"Dal": 2}, draft)
}

func TestMemoryDraftStore_SweepKeepsLiveDrafts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	old := model.DraftKey{SessionID: "s1", SupplierID: "sup1"}
	require.NoError(t, store.SetQuantities(ctx, old, []model.DraftEdit{{Item: "Rice", Quantity: 3}}))

	now = now.Add(30 * time.Minute)
	require.NoError(t, store.SetQuantities(ctx, model.DraftKey{SessionID: "s2", SupplierID: "sup1"}, nil))

	draft, err := store.Load(ctx, old)
	require.NoError(t, err)
	assert.Equal(t, model.DraftSelection{"Rice": 3}, draft)
}
