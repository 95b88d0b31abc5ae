package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"moviemate/internal/models"
)

// ErrNotFound is returned when a user or entity does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository handles database operations for users and their curated
// state. Uniqueness of (user, catalog id) membership is enforced by the
// storage constraints, not by application-level locking.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ---- Users ----

// EnsureUser creates the user on first contact or, if the user already
// exists, bumps the activity timestamp. Callers never need to distinguish
// "created" from "already existed" on this path.
func (r *UserRepository) EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE SET last_active_at = NOW()
		RETURNING id, telegram_id, username, first_name, last_name,
			language, notifications_enabled, created_at, last_active_at
	`, telegramID, username, firstName, lastName).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName,
		&u.Language, &u.NotificationsEnabled, &u.CreatedAt, &u.LastActiveAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return &u, nil
}

// GetUserByTelegramID returns a user by the platform identity key.
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, telegram_id, username, first_name, last_name,
			language, notifications_enabled, created_at, last_active_at
		FROM users WHERE telegram_id = $1
	`, telegramID).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName,
		&u.Language, &u.NotificationsEnabled, &u.CreatedAt, &u.LastActiveAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// TouchUser updates the user's last-activity timestamp.
func (r *UserRepository) TouchUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_active_at = NOW() WHERE id = $1`, userID)
	return err
}

// ---- Preferences ----

// GetPreferences returns the user's preferences, creating the default row
// on first access. The insert is conflict-tolerant so concurrent first
// accesses cannot race into a uniqueness violation.
func (r *UserRepository) GetPreferences(ctx context.Context, userID int) (*models.UserPreferences, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, favorite_genres, min_rating)
		VALUES ($1, '{}', $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, models.DefaultMinRating)
	if err != nil {
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}

	var p models.UserPreferences
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, favorite_genres, min_rating,
			preferred_year_from, preferred_year_to, notifications_enabled, updated_at
		FROM user_preferences WHERE user_id = $1
	`, userID).Scan(
		&p.ID, &p.UserID, pq.Array(&p.FavoriteGenres), &p.MinRating,
		&p.PreferredYearFrom, &p.PreferredYearTo, &p.NotificationsEnabled, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences upserts the user's preferences.
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID int, prefs models.UserPreferences) (*models.UserPreferences, error) {
	var p models.UserPreferences
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_preferences
			(user_id, favorite_genres, min_rating, preferred_year_from,
			 preferred_year_to, notifications_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			favorite_genres = EXCLUDED.favorite_genres,
			min_rating = EXCLUDED.min_rating,
			preferred_year_from = EXCLUDED.preferred_year_from,
			preferred_year_to = EXCLUDED.preferred_year_to,
			notifications_enabled = EXCLUDED.notifications_enabled,
			updated_at = NOW()
		RETURNING id, user_id, favorite_genres, min_rating,
			preferred_year_from, preferred_year_to, notifications_enabled, updated_at
	`, userID, pq.Array(prefs.FavoriteGenres), prefs.MinRating,
		prefs.PreferredYearFrom, prefs.PreferredYearTo, prefs.NotificationsEnabled,
	).Scan(
		&p.ID, &p.UserID, pq.Array(&p.FavoriteGenres), &p.MinRating,
		&p.PreferredYearFrom, &p.PreferredYearTo, &p.NotificationsEnabled, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return &p, nil
}

// ---- Favorites ----

// AddFavorite stores a favorite with a snapshot of the catalog data.
// Adding an existing favorite is a no-op reported as added=false; the
// unique constraint carries the invariant.
func (r *UserRepository) AddFavorite(ctx context.Context, userID int, t models.Title) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites
			(user_id, tmdb_id, media_type, title, original_title, poster_url,
			 backdrop_url, overview, release_date, vote_average, genres)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, tmdb_id) DO NOTHING
	`, userID, t.TMDBId, t.Kind, t.Title, t.OriginalTitle, t.PosterURL,
		t.BackdropURL, t.Overview, t.ReleaseDate, t.VoteAverage, pq.Array(t.Genres))
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveFavorite deletes a favorite; removed=false when it was not there.
func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, tmdbID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND tmdb_id = $2
	`, userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFavorites returns the user's favorites, most recent first.
func (r *UserRepository) ListFavorites(ctx context.Context, userID, limit int) ([]models.Favorite, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, tmdb_id, media_type, title, original_title,
			poster_url, backdrop_url, overview, release_date, vote_average,
			genres, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.Favorite, 0)
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.TMDBId, &f.Kind, &f.Title, &f.OriginalTitle,
			&f.PosterURL, &f.BackdropURL, &f.Overview, &f.ReleaseDate,
			&f.VoteAverage, pq.Array(&f.Genres), &f.AddedAt,
		); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// IsFavorite reports whether the user has favorited the catalog item.
func (r *UserRepository) IsFavorite(ctx context.Context, userID, tmdbID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND tmdb_id = $2)
	`, userID, tmdbID).Scan(&exists)
	return exists, err
}

// ---- Watch history ----

// AddWatched marks a title watched. Idempotent membership, not an event
// log: marking twice keeps exactly one row and reports added=false.
func (r *UserRepository) AddWatched(ctx context.Context, userID int, t models.Title) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO watch_history
			(user_id, tmdb_id, media_type, title, poster_url, release_date, genres)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, tmdb_id) DO NOTHING
	`, userID, t.TMDBId, t.Kind, t.Title, t.PosterURL, t.ReleaseDate, pq.Array(t.Genres))
	if err != nil {
		return false, fmt.Errorf("failed to add watch entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveWatched unmarks a watched title.
func (r *UserRepository) RemoveWatched(ctx context.Context, userID, tmdbID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM watch_history WHERE user_id = $1 AND tmdb_id = $2
	`, userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("failed to remove watch entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListWatched returns the user's watch history, most recent first.
func (r *UserRepository) ListWatched(ctx context.Context, userID, limit int) ([]models.WatchHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, tmdb_id, media_type, title, poster_url,
			release_date, genres, watched_at
		FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	watched := make([]models.WatchHistory, 0)
	for rows.Next() {
		var w models.WatchHistory
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.TMDBId, &w.Kind, &w.Title, &w.PosterURL,
			&w.ReleaseDate, pq.Array(&w.Genres), &w.WatchedAt,
		); err != nil {
			return nil, err
		}
		watched = append(watched, w)
	}
	return watched, rows.Err()
}

// IsWatched reports whether the user has marked the catalog item watched.
func (r *UserRepository) IsWatched(ctx context.Context, userID, tmdbID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM watch_history WHERE user_id = $1 AND tmdb_id = $2)
	`, userID, tmdbID).Scan(&exists)
	return exists, err
}

// ---- Search history ----

// LogSearch appends one entry to the search log. The log is append-only
// and only ever aggregated, never mutated.
func (r *UserRepository) LogSearch(ctx context.Context, userID int, query, searchType string, filters map[string]any, resultsCount int) error {
	if filters == nil {
		filters = map[string]any{}
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("failed to encode search filters: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO search_history (user_id, query, search_type, filters, results_count)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, query, searchType, raw, resultsCount)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// ListSearches returns the user's recent searches, most recent first.
func (r *UserRepository) ListSearches(ctx context.Context, userID, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, query, search_type, filters, results_count, searched_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY searched_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	searches := make([]models.SearchHistory, 0)
	for rows.Next() {
		var s models.SearchHistory
		var raw []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.Query, &s.SearchType, &raw, &s.ResultsCount, &s.SearchedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &s.Filters); err != nil {
			s.Filters = map[string]any{}
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

// ---- Statistics ----

// Stats returns the per-user counters. Watched counts distinct catalog IDs
// so the statistic stays correct even if the table ever held duplicates.
func (r *UserRepository) Stats(ctx context.Context, userID int) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM favorites WHERE user_id = $1),
			(SELECT COUNT(DISTINCT tmdb_id) FROM watch_history WHERE user_id = $1),
			(SELECT COUNT(*) FROM search_history WHERE user_id = $1)
	`, userID).Scan(&stats.Favorites, &stats.Watched, &stats.Searches)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}
