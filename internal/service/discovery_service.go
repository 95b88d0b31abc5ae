package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"moviemate/internal/catalog"
	"moviemate/internal/models"
	"moviemate/internal/session"
)

const (
	listCacheTTL = 5 * time.Minute
	recsCacheTTL = 10 * time.Minute

	// Rating floor for the static fallback when a user has no favorites
	// to base recommendations on.
	fallbackMinRating = 7.0
)

// ErrEmptyQuery rejects blank search text before any network or storage
// call is made.
var ErrEmptyQuery = errors.New("search query is empty")

// DiscoveryService combines persisted user state with the catalog's query
// capabilities. Catalog calls always happen outside any database work: the
// network fetch completes first, then local state is read or written.
type DiscoveryService struct {
	catalog Catalog
	store   UserStore
	redis   *redis.Client
}

// NewDiscoveryService creates a new DiscoveryService. rdb may be nil; the
// service then runs without the cache.
func NewDiscoveryService(cat Catalog, store UserStore, rdb *redis.Client) *DiscoveryService {
	return &DiscoveryService{catalog: cat, store: store, redis: rdb}
}

// Search runs a free-text search and logs it to the user's search history.
// An optional year narrows results after the fact, since the upstream
// search endpoint takes no year bound.
func (s *DiscoveryService) Search(ctx context.Context, userID int, kind models.MediaKind, query string, year int) ([]models.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	results, err := s.catalog.Search(ctx, kind, query, 1)
	if err != nil {
		return nil, err
	}

	if year > 0 {
		filtered := results[:0]
		for _, t := range results {
			if t.Year == year {
				filtered = append(filtered, t)
			}
		}
		results = filtered
	}

	filters := map[string]any{}
	if year > 0 {
		filters["year"] = year
	}
	s.logSearch(ctx, userID, query, "text", filters, len(results))

	return results, nil
}

// DiscoverWithFilters translates accumulated filter state into a catalog
// discover call. Genre names are resolved to IDs through the genre cache;
// names the catalog no longer lists are dropped. Zero filters still
// executes an unrestricted discover bounded by the default rating floor.
// An empty result is a normal outcome, distinct from a catalog failure.
func (s *DiscoveryService) DiscoverWithFilters(ctx context.Context, userID int, kind models.MediaKind, state session.FilterState) ([]models.Title, error) {
	var genreIDs []int
	if len(state.Genres) > 0 {
		ids, err := s.catalog.GenreIDs(ctx, kind, state.Genres)
		if err != nil {
			// Proceed without the genre clause rather than failing the
			// whole discover.
			slog.Warn("could not resolve genre filters", "kind", kind, "error", err)
		} else {
			genreIDs = ids
		}
	}

	params := catalog.DiscoverParams{
		GenreIDs:  genreIDs,
		MinRating: state.MinRating,
		SortBy:    catalog.SortPopularityDesc,
		Page:      1,
	}
	if state.YearFrom != nil && state.YearTo != nil {
		params.YearFrom = *state.YearFrom
		params.YearTo = *state.YearTo
	}

	results, err := s.catalog.Discover(ctx, kind, params)
	if err != nil {
		return nil, err
	}

	filters := map[string]any{
		"genres":     state.Genres,
		"min_rating": state.MinRating,
	}
	if state.YearFrom != nil && state.YearTo != nil {
		filters["year_from"] = *state.YearFrom
		filters["year_to"] = *state.YearTo
	}
	s.logSearch(ctx, userID, "advanced search", "filter", filters, len(results))

	return results, nil
}

// Recommendations returns titles similar to the user's most recent
// favorite of the given kind. With no favorites, or when the catalog has
// nothing similar, it falls back to a static popularity-filtered discover.
func (s *DiscoveryService) Recommendations(ctx context.Context, userID int, kind models.MediaKind) ([]models.Title, error) {
	cacheKey := fmt.Sprintf("recommendations:%d:%s", userID, kind)
	if cached, ok := s.cachedTitles(ctx, cacheKey); ok {
		return cached, nil
	}

	favorites, err := s.store.ListFavorites(ctx, userID, 10)
	if err != nil {
		slog.Warn("could not load favorites for recommendations", "user_id", userID, "error", err)
	}

	var results []models.Title
	for _, fav := range favorites {
		if fav.Kind != kind {
			continue
		}
		results, err = s.catalog.Recommendations(ctx, kind, fav.TMDBId, 1)
		if err != nil {
			slog.Warn("recommendations lookup failed, using discover fallback",
				"tmdb_id", fav.TMDBId, "error", err)
			results = nil
		}
		break
	}

	if len(results) == 0 {
		results, err = s.catalog.Discover(ctx, kind, catalog.DiscoverParams{
			MinRating: fallbackMinRating,
			SortBy:    catalog.SortPopularityDesc,
			Page:      1,
		})
		if err != nil {
			return nil, err
		}
	}

	s.cacheTitles(ctx, cacheKey, results, recsCacheTTL)
	return results, nil
}

// Trending returns the trending list, cached briefly.
func (s *DiscoveryService) Trending(ctx context.Context, kind models.MediaKind, window string) ([]models.Title, error) {
	cacheKey := fmt.Sprintf("trending:%s:%s", kind, window)
	if cached, ok := s.cachedTitles(ctx, cacheKey); ok {
		return cached, nil
	}

	results, err := s.catalog.Trending(ctx, kind, window)
	if err != nil {
		return nil, err
	}

	s.cacheTitles(ctx, cacheKey, results, listCacheTTL)
	return results, nil
}

// Popular returns the popular list, cached briefly.
func (s *DiscoveryService) Popular(ctx context.Context, kind models.MediaKind) ([]models.Title, error) {
	cacheKey := fmt.Sprintf("popular:%s", kind)
	if cached, ok := s.cachedTitles(ctx, cacheKey); ok {
		return cached, nil
	}

	results, err := s.catalog.Popular(ctx, kind, 1)
	if err != nil {
		return nil, err
	}

	s.cacheTitles(ctx, cacheKey, results, listCacheTTL)
	return results, nil
}

// Details fetches the full catalog record for one title.
func (s *DiscoveryService) Details(ctx context.Context, kind models.MediaKind, id int) (*models.TitleDetail, error) {
	return s.catalog.Details(ctx, kind, id)
}

// TrailerURL returns the trailer link for a title, or "" when none exists.
func (s *DiscoveryService) TrailerURL(ctx context.Context, kind models.MediaKind, id int) (string, error) {
	return s.catalog.TrailerURL(ctx, kind, id)
}

// logSearch appends to the search log. Failures are logged and dropped:
// history is bookkeeping, not part of the user-visible result.
func (s *DiscoveryService) logSearch(ctx context.Context, userID int, query, searchType string, filters map[string]any, count int) {
	if err := s.store.LogSearch(ctx, userID, query, searchType, filters, count); err != nil {
		slog.Error("failed to log search", "user_id", userID, "error", err)
	}
}

// ---- Redis helpers ----

func (s *DiscoveryService) cachedTitles(ctx context.Context, key string) ([]models.Title, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var titles []models.Title
	if err := json.Unmarshal([]byte(raw), &titles); err != nil {
		return nil, false
	}
	slog.Debug("cache hit", "key", key)
	return titles, true
}

func (s *DiscoveryService) cacheTitles(ctx context.Context, key string, titles []models.Title, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(titles)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
