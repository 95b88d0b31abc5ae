package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"moviemate/internal/models"
)

const prefCacheTTL = 10 * time.Minute

var (
	// ErrInvalidRating rejects a rating floor outside [0, 10].
	ErrInvalidRating = errors.New("min rating must be between 0 and 10")
	// ErrInvalidTitle rejects a curation request without a catalog id.
	ErrInvalidTitle = errors.New("title has no catalog id")
	// ErrInvalidYearRange rejects a year range with reversed bounds.
	ErrInvalidYearRange = errors.New("year range is reversed")
)

// UserService handles user accounts, preferences, and the curated
// favorites/watched sets.
type UserService struct {
	store UserStore
	redis *redis.Client
}

// NewUserService creates a new UserService. rdb may be nil.
func NewUserService(store UserStore, rdb *redis.Client) *UserService {
	return &UserService{store: store, redis: rdb}
}

// Ensure registers the user on first contact and refreshes the activity
// timestamp on every subsequent one.
func (s *UserService) Ensure(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	return s.store.EnsureUser(ctx, telegramID, username, firstName, lastName)
}

// Lookup returns the user for a platform identity.
func (s *UserService) Lookup(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.store.GetUserByTelegramID(ctx, telegramID)
}

// Touch refreshes the user's activity timestamp.
func (s *UserService) Touch(ctx context.Context, userID int) error {
	return s.store.TouchUser(ctx, userID)
}

// Preferences returns the user's preferences, creating defaults on first
// access.
func (s *UserService) Preferences(ctx context.Context, userID int) (*models.UserPreferences, error) {
	cacheKey := fmt.Sprintf("user:pref:%d", userID)
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var p models.UserPreferences
			if json.Unmarshal([]byte(raw), &p) == nil {
				return &p, nil
			}
		}
	}

	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(prefs); err == nil {
			if err := s.redis.Set(ctx, cacheKey, raw, prefCacheTTL).Err(); err != nil {
				slog.Error("failed to cache preferences", "user_id", userID, "error", err)
			}
		}
	}
	return prefs, nil
}

// UpdatePreferences validates and stores new preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, userID int, prefs models.UserPreferences) (*models.UserPreferences, error) {
	if prefs.MinRating < 0 || prefs.MinRating > 10 {
		return nil, ErrInvalidRating
	}
	if prefs.FavoriteGenres == nil {
		prefs.FavoriteGenres = []string{}
	}
	if prefs.PreferredYearFrom != nil && prefs.PreferredYearTo != nil &&
		*prefs.PreferredYearFrom > *prefs.PreferredYearTo {
		return nil, ErrInvalidYearRange
	}

	updated, err := s.store.UpdatePreferences(ctx, userID, prefs)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		s.redis.Del(ctx, fmt.Sprintf("user:pref:%d", userID))
	}
	return updated, nil
}

// AddFavorite puts a title into the user's favorites set. added=false
// means it was already there; the caller surfaces different text for each.
func (s *UserService) AddFavorite(ctx context.Context, userID int, t models.Title) (bool, error) {
	if t.TMDBId == 0 {
		return false, ErrInvalidTitle
	}
	return s.store.AddFavorite(ctx, userID, t)
}

// RemoveFavorite takes a title out of the favorites set.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, tmdbID int) (bool, error) {
	return s.store.RemoveFavorite(ctx, userID, tmdbID)
}

// Favorites lists the user's favorites, most recent first.
func (s *UserService) Favorites(ctx context.Context, userID, limit int) ([]models.Favorite, error) {
	return s.store.ListFavorites(ctx, userID, limit)
}

// MarkWatched puts a title into the watched set. Idempotent; added=false
// signals it was already watched.
func (s *UserService) MarkWatched(ctx context.Context, userID int, t models.Title) (bool, error) {
	if t.TMDBId == 0 {
		return false, ErrInvalidTitle
	}
	return s.store.AddWatched(ctx, userID, t)
}

// UnmarkWatched takes a title out of the watched set.
func (s *UserService) UnmarkWatched(ctx context.Context, userID, tmdbID int) (bool, error) {
	return s.store.RemoveWatched(ctx, userID, tmdbID)
}

// Watched lists the user's watch history, most recent first.
func (s *UserService) Watched(ctx context.Context, userID, limit int) ([]models.WatchHistory, error) {
	return s.store.ListWatched(ctx, userID, limit)
}

// Searches lists the user's recent search log entries.
func (s *UserService) Searches(ctx context.Context, userID, limit int) ([]models.SearchHistory, error) {
	return s.store.ListSearches(ctx, userID, limit)
}

// Stats returns the user's profile counters.
func (s *UserService) Stats(ctx context.Context, userID int) (*models.UserStats, error) {
	return s.store.Stats(ctx, userID)
}
