package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := token.Generate()
	require.NoError(t, err)
	b, err := token.Generate()
	require.NoError(t, err)

	assert.Len(t, a, token.Length*2)
	assert.NotEqual(t, a, b)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store := token.NewMemoryStore()
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Save(ctx, "abc", time.Hour))

	ok, err := store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = store.Exists(ctx, "unknown")
	assert.False(t, ok)

	now = now.Add(time.Hour)
	ok, _ = store.Exists(ctx, "abc")
	assert.False(t, ok, "token expires at its ttl")
}

func TestMemoryStoreCheckDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	store := token.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "abc", time.Hour))

	for i := 0; i < 3; i++ {
		ok, _ := store.Exists(ctx, "abc")
		assert.True(t, ok)
	}
}

func TestMemoryStoreSweepsOnInterval(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store := token.NewMemoryStore()
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Save(ctx, "old", time.Minute))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "mid", time.Minute))
	assert.Equal(t, 2, store.Len(), "no sweep inside the interval")

	now = now.Add(5 * time.Minute)
	require.NoError(t, store.Save(ctx, "new", time.Minute))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreCap(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store := token.NewMemoryStore()
	store.SetClock(func() time.Time { return now })
	store.SetMax(2)

	require.NoError(t, store.Save(ctx, "a", time.Minute))
	require.NoError(t, store.Save(ctx, "b", time.Hour))
	assert.ErrorIs(t, store.Save(ctx, "c", time.Hour), token.ErrStoreFull)

	ok, _ := store.Exists(ctx, "c")
	assert.False(t, ok)

	// a full store sweeps before refusing
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "c", time.Hour))
	assert.Equal(t, 2, store.Len())
}

func TestPresenceStoreAcceptsAnything(t *testing.T) {
	ok, err := token.PresenceStore{}.Exists(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.True(t, ok)
}
