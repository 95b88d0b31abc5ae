package service

import (
	"context"
	"errors"

	"moviemate/internal/catalog"
	"moviemate/internal/models"
)

// fakeCatalog implements Catalog with per-method hooks. A nil hook means
// the call succeeds with an empty result; tests assert hooks were or were
// not reached through the call counters.
type fakeCatalog struct {
	searchFn          func(kind models.MediaKind, query string) ([]models.Title, error)
	discoverFn        func(kind models.MediaKind, p catalog.DiscoverParams) ([]models.Title, error)
	recommendationsFn func(kind models.MediaKind, id int) ([]models.Title, error)
	genreIDsFn        func(kind models.MediaKind, names []string) ([]int, error)
	trendingFn        func(kind models.MediaKind, window string) ([]models.Title, error)
	popularFn         func(kind models.MediaKind) ([]models.Title, error)

	searchCalls          int
	discoverCalls        int
	recommendationsCalls int
}

func (f *fakeCatalog) Search(_ context.Context, kind models.MediaKind, query string, _ int) ([]models.Title, error) {
	f.searchCalls++
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(kind, query)
}

func (f *fakeCatalog) Discover(_ context.Context, kind models.MediaKind, p catalog.DiscoverParams) ([]models.Title, error) {
	f.discoverCalls++
	if f.discoverFn == nil {
		return nil, nil
	}
	return f.discoverFn(kind, p)
}

func (f *fakeCatalog) Trending(_ context.Context, kind models.MediaKind, window string) ([]models.Title, error) {
	if f.trendingFn == nil {
		return nil, nil
	}
	return f.trendingFn(kind, window)
}

func (f *fakeCatalog) Popular(_ context.Context, kind models.MediaKind, _ int) ([]models.Title, error) {
	if f.popularFn == nil {
		return nil, nil
	}
	return f.popularFn(kind)
}

func (f *fakeCatalog) Details(_ context.Context, _ models.MediaKind, _ int) (*models.TitleDetail, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalog) Recommendations(_ context.Context, kind models.MediaKind, id, _ int) ([]models.Title, error) {
	f.recommendationsCalls++
	if f.recommendationsFn == nil {
		return nil, nil
	}
	return f.recommendationsFn(kind, id)
}

func (f *fakeCatalog) TrailerURL(_ context.Context, _ models.MediaKind, _ int) (string, error) {
	return "", nil
}

func (f *fakeCatalog) GenreIDs(_ context.Context, kind models.MediaKind, names []string) ([]int, error) {
	if f.genreIDsFn == nil {
		return nil, nil
	}
	return f.genreIDsFn(kind, names)
}

type loggedSearch struct {
	query      string
	searchType string
	filters    map[string]any
	count      int
}

// fakeStore is an in-memory UserStore with duplicate-signaling semantics
// matching the real repository's conflict handling.
type fakeStore struct {
	user      *models.User
	prefs     *models.UserPreferences
	favorites []models.Favorite
	watched   []models.WatchHistory
	searches  []loggedSearch

	listFavoritesErr error
	updatedPrefs     *models.UserPreferences
}

func (f *fakeStore) EnsureUser(_ context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	if f.user == nil {
		f.user = &models.User{
			ID:         1,
			TelegramID: telegramID,
			Username:   username,
			FirstName:  firstName,
			LastName:   lastName,
		}
	}
	return f.user, nil
}

func (f *fakeStore) GetUserByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	if f.user == nil || f.user.TelegramID != telegramID {
		return nil, errors.New("not found")
	}
	return f.user, nil
}

func (f *fakeStore) TouchUser(_ context.Context, _ int) error { return nil }

func (f *fakeStore) GetPreferences(_ context.Context, userID int) (*models.UserPreferences, error) {
	if f.prefs == nil {
		f.prefs = &models.UserPreferences{
			UserID:         userID,
			FavoriteGenres: []string{},
			MinRating:      models.DefaultMinRating,
		}
	}
	return f.prefs, nil
}

func (f *fakeStore) UpdatePreferences(_ context.Context, userID int, prefs models.UserPreferences) (*models.UserPreferences, error) {
	prefs.UserID = userID
	f.prefs = &prefs
	f.updatedPrefs = &prefs
	return f.prefs, nil
}

func (f *fakeStore) AddFavorite(_ context.Context, userID int, t models.Title) (bool, error) {
	for _, fav := range f.favorites {
		if fav.TMDBId == t.TMDBId {
			return false, nil
		}
	}
	f.favorites = append([]models.Favorite{{
		UserID: userID,
		TMDBId: t.TMDBId,
		Kind:   t.Kind,
		Title:  t.Title,
	}}, f.favorites...)
	return true, nil
}

func (f *fakeStore) RemoveFavorite(_ context.Context, _, tmdbID int) (bool, error) {
	for i, fav := range f.favorites {
		if fav.TMDBId == tmdbID {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListFavorites(_ context.Context, _, limit int) ([]models.Favorite, error) {
	if f.listFavoritesErr != nil {
		return nil, f.listFavoritesErr
	}
	if limit > 0 && len(f.favorites) > limit {
		return f.favorites[:limit], nil
	}
	return f.favorites, nil
}

func (f *fakeStore) IsFavorite(_ context.Context, _, tmdbID int) (bool, error) {
	for _, fav := range f.favorites {
		if fav.TMDBId == tmdbID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) AddWatched(_ context.Context, userID int, t models.Title) (bool, error) {
	for _, w := range f.watched {
		if w.TMDBId == t.TMDBId {
			return false, nil
		}
	}
	f.watched = append([]models.WatchHistory{{
		UserID: userID,
		TMDBId: t.TMDBId,
		Kind:   t.Kind,
		Title:  t.Title,
	}}, f.watched...)
	return true, nil
}

func (f *fakeStore) RemoveWatched(_ context.Context, _, tmdbID int) (bool, error) {
	for i, w := range f.watched {
		if w.TMDBId == tmdbID {
			f.watched = append(f.watched[:i], f.watched[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListWatched(_ context.Context, _, limit int) ([]models.WatchHistory, error) {
	if limit > 0 && len(f.watched) > limit {
		return f.watched[:limit], nil
	}
	return f.watched, nil
}

func (f *fakeStore) IsWatched(_ context.Context, _, tmdbID int) (bool, error) {
	for _, w := range f.watched {
		if w.TMDBId == tmdbID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LogSearch(_ context.Context, _ int, query, searchType string, filters map[string]any, resultsCount int) error {
	f.searches = append(f.searches, loggedSearch{
		query:      query,
		searchType: searchType,
		filters:    filters,
		count:      resultsCount,
	})
	return nil
}

func (f *fakeStore) ListSearches(_ context.Context, _, limit int) ([]models.SearchHistory, error) {
	out := make([]models.SearchHistory, 0, len(f.searches))
	for i := len(f.searches) - 1; i >= 0; i-- {
		s := f.searches[i]
		out = append(out, models.SearchHistory{
			Query:        s.query,
			SearchType:   s.searchType,
			Filters:      s.filters,
			ResultsCount: s.count,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Stats(_ context.Context, _ int) (*models.UserStats, error) {
	seen := make(map[int]bool)
	for _, w := range f.watched {
		seen[w.TMDBId] = true
	}
	return &models.UserStats{
		Favorites: len(f.favorites),
		Watched:   len(seen),
		Searches:  len(f.searches),
	}, nil
}
