package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreMissingSessionReadsAsDefault(t *testing.T) {
	store := NewMemoryStore()

	state, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, state.IsDefault())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := DefaultFilters()
	state.ToggleGenre("Horror")
	state.SetYearRange(1990, 1999)
	require.NoError(t, store.Put(ctx, 7, state))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Horror"}, got.Genres)
	assert.Equal(t, 1990, *got.YearFrom)
	assert.Equal(t, 1999, *got.YearTo)

	require.NoError(t, store.Delete(ctx, 7))
	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got.IsDefault())
}

func TestMemoryStoreCopiesAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := DefaultFilters()
	state.ToggleGenre("Horror")
	state.ToggleGenre("Thriller")
	require.NoError(t, store.Put(ctx, 1, state))

	// Mutating the caller's copy must not reach the stored state.
	first, err := store.Get(ctx, 1)
	require.NoError(t, err)
	first.ToggleGenre("Horror")

	second, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Horror", "Thriller"}, second.Genres)
}

func TestMemoryStoreSessionsAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := DefaultFilters()
	a.SetMinRating(8.0)
	require.NoError(t, store.Put(ctx, 1, a))

	b, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, b.IsDefault())
}
