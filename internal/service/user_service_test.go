package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviemate/internal/models"
)

func TestAddFavoriteSignalsDuplicates(t *testing.T) {
	store := &fakeStore{}
	svc := NewUserService(store, nil)
	ctx := context.Background()

	title := models.Title{TMDBId: 27205, Kind: models.KindMovie, Title: "Inception"}

	added, err := svc.AddFavorite(ctx, 1, title)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddFavorite(ctx, 1, title)
	require.NoError(t, err)
	assert.False(t, added, "second add reports already present")

	favs, err := svc.Favorites(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestAddFavoriteRejectsMissingID(t *testing.T) {
	svc := NewUserService(&fakeStore{}, nil)

	_, err := svc.AddFavorite(context.Background(), 1, models.Title{Title: "No ID"})
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestRemoveFavoriteReportsPresence(t *testing.T) {
	store := &fakeStore{}
	svc := NewUserService(store, nil)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, 1, models.Title{TMDBId: 603, Kind: models.KindMovie, Title: "The Matrix"})
	require.NoError(t, err)

	removed, err := svc.RemoveFavorite(ctx, 1, 603)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFavorite(ctx, 1, 603)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMarkWatchedIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	svc := NewUserService(store, nil)
	ctx := context.Background()

	title := models.Title{TMDBId: 1396, Kind: models.KindTV, Title: "Breaking Bad"}

	added, err := svc.MarkWatched(ctx, 1, title)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.MarkWatched(ctx, 1, title)
	require.NoError(t, err)
	assert.False(t, added)

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Watched)
}

func TestMarkWatchedRejectsMissingID(t *testing.T) {
	svc := NewUserService(&fakeStore{}, nil)

	_, err := svc.MarkWatched(context.Background(), 1, models.Title{Title: "No ID"})
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestUpdatePreferencesValidation(t *testing.T) {
	store := &fakeStore{}
	svc := NewUserService(store, nil)
	ctx := context.Background()

	t.Run("rating out of range", func(t *testing.T) {
		_, err := svc.UpdatePreferences(ctx, 1, models.UserPreferences{MinRating: 10.5})
		assert.ErrorIs(t, err, ErrInvalidRating)

		_, err = svc.UpdatePreferences(ctx, 1, models.UserPreferences{MinRating: -1})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("reversed year range", func(t *testing.T) {
		from, to := 2020, 2010
		_, err := svc.UpdatePreferences(ctx, 1, models.UserPreferences{
			MinRating:         7,
			PreferredYearFrom: &from,
			PreferredYearTo:   &to,
		})
		assert.ErrorIs(t, err, ErrInvalidYearRange)
	})

	t.Run("nil genres normalize to empty", func(t *testing.T) {
		updated, err := svc.UpdatePreferences(ctx, 1, models.UserPreferences{MinRating: 7})
		require.NoError(t, err)
		assert.NotNil(t, updated.FavoriteGenres)
		assert.Empty(t, updated.FavoriteGenres)
	})
}

func TestPreferencesDefaultOnFirstAccess(t *testing.T) {
	store := &fakeStore{}
	svc := NewUserService(store, nil)

	prefs, err := svc.Preferences(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultMinRating, prefs.MinRating)
	assert.Empty(t, prefs.FavoriteGenres)
	assert.Nil(t, prefs.PreferredYearFrom)
}

func TestEnsureAndLookup(t *testing.T) {
	store := &fakeStore{}
	svc := NewUserService(store, nil)
	ctx := context.Background()

	u, err := svc.Ensure(ctx, 99887766, "moviefan", "Alex", "")
	require.NoError(t, err)
	assert.Equal(t, int64(99887766), u.TelegramID)

	got, err := svc.Lookup(ctx, 99887766)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Lookup(ctx, 11111111)
	assert.Error(t, err)
}

func TestStatsCountDistinctWatched(t *testing.T) {
	store := &fakeStore{
		favorites: []models.Favorite{{TMDBId: 1}, {TMDBId: 2}},
		watched: []models.WatchHistory{
			{TMDBId: 10}, {TMDBId: 10}, {TMDBId: 11},
		},
		searches: []loggedSearch{{query: "a"}, {query: "b"}, {query: "c"}},
	}
	svc := NewUserService(store, nil)

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Favorites)
	assert.Equal(t, 2, stats.Watched)
	assert.Equal(t, 3, stats.Searches)
}
