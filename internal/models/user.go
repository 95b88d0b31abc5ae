package models

import "time"

// User is an account keyed by the messaging platform's user ID.
// Created on first contact, never deleted in the normal flow.
type User struct {
	ID                   int       `json:"id"`
	TelegramID           int64     `json:"telegram_id"`
	Username             string    `json:"username"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name,omitempty"`
	Language             string    `json:"language"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	LastActiveAt         time.Time `json:"last_active_at"`
}

// UserPreferences stores discovery preferences, one row per user.
// Created lazily with defaults on first settings access.
type UserPreferences struct {
	ID                   int       `json:"id"`
	UserID               int       `json:"user_id"`
	FavoriteGenres       []string  `json:"favorite_genres"`
	MinRating            float64   `json:"min_rating"`
	PreferredYearFrom    *int      `json:"preferred_year_from,omitempty"`
	PreferredYearTo      *int      `json:"preferred_year_to,omitempty"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultMinRating is the preference applied before a user changes anything.
const DefaultMinRating = 6.0

// Favorite is one entry in a user's favorites set. The catalog data is
// snapshotted at favoriting time and never re-fetched.
type Favorite struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	TMDBId        int       `json:"tmdb_id"`
	Kind          MediaKind `json:"media_type"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty"`
	BackdropURL   string    `json:"backdrop_url,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty"`
	VoteAverage   float64   `json:"vote_average"`
	Genres        []string  `json:"genres"`
	AddedAt       time.Time `json:"added_at"`
}

// WatchHistory is one entry in a user's watched set. Marking a title
// watched is idempotent membership, not an event log.
type WatchHistory struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	TMDBId      int       `json:"tmdb_id"`
	Kind        MediaKind `json:"media_type"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"poster_url,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Genres      []string  `json:"genres"`
	WatchedAt   time.Time `json:"watched_at"`
}

// SearchHistory is an append-only log of search activity.
type SearchHistory struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	Query        string          `json:"query"`
	SearchType   string          `json:"search_type"`
	Filters      map[string]any  `json:"filters"`
	ResultsCount int             `json:"results_count"`
	SearchedAt   time.Time       `json:"searched_at"`
}

// UserStats are the per-user counters shown in the profile view. Watched
// counts distinct catalog IDs so accidental duplicate rows never inflate it.
type UserStats struct {
	Favorites int `json:"favorites"`
	Watched   int `json:"watched"`
	Searches  int `json:"searches"`
}
