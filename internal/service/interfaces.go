package service

import (
	"context"

	"moviemate/internal/catalog"
	"moviemate/internal/models"
)

// Catalog is the slice of the catalog client the services depend on.
type Catalog interface {
	Search(ctx context.Context, kind models.MediaKind, query string, page int) ([]models.Title, error)
	Discover(ctx context.Context, kind models.MediaKind, p catalog.DiscoverParams) ([]models.Title, error)
	Trending(ctx context.Context, kind models.MediaKind, window string) ([]models.Title, error)
	Popular(ctx context.Context, kind models.MediaKind, page int) ([]models.Title, error)
	Details(ctx context.Context, kind models.MediaKind, id int) (*models.TitleDetail, error)
	Recommendations(ctx context.Context, kind models.MediaKind, id, page int) ([]models.Title, error)
	TrailerURL(ctx context.Context, kind models.MediaKind, id int) (string, error)
	GenreIDs(ctx context.Context, kind models.MediaKind, names []string) ([]int, error)
}

// UserStore is the slice of the repository the services depend on.
type UserStore interface {
	EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	TouchUser(ctx context.Context, userID int) error
	GetPreferences(ctx context.Context, userID int) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID int, prefs models.UserPreferences) (*models.UserPreferences, error)
	AddFavorite(ctx context.Context, userID int, t models.Title) (bool, error)
	RemoveFavorite(ctx context.Context, userID, tmdbID int) (bool, error)
	ListFavorites(ctx context.Context, userID, limit int) ([]models.Favorite, error)
	IsFavorite(ctx context.Context, userID, tmdbID int) (bool, error)
	AddWatched(ctx context.Context, userID int, t models.Title) (bool, error)
	RemoveWatched(ctx context.Context, userID, tmdbID int) (bool, error)
	ListWatched(ctx context.Context, userID, limit int) ([]models.WatchHistory, error)
	IsWatched(ctx context.Context, userID, tmdbID int) (bool, error)
	LogSearch(ctx context.Context, userID int, query, searchType string, filters map[string]any, resultsCount int) error
	ListSearches(ctx context.Context, userID, limit int) ([]models.SearchHistory, error)
	Stats(ctx context.Context, userID int) (*models.UserStats, error)
}
