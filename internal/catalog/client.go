package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviemate/internal/models"
)

// ErrUnavailable marks any transport, auth, or parse failure talking to the
// catalog provider. Callers treat it as "no results, but recoverable".
var ErrUnavailable = errors.New("catalog unavailable")

const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/original"

	// Result caps are a product constraint, not an API limit.
	listCap     = 10
	discoverCap = 20

	// Vote-count floors exclude low-sample outliers from filtered discovery.
	movieVoteCountFloor = 100
	tvVoteCountFloor    = 50

	// SortPopularityDesc is the default discover sort key.
	SortPopularityDesc = "popularity.desc"
)

// Client is the TMDB catalog client. It normalizes every response shape
// into models.Title and owns the process-lifetime genre cache.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	genres  *GenreCache
}

// NewClient creates a new catalog client.
func NewClient(apiKey, baseURL string) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	c.genres = NewGenreCache(c.fetchGenres)
	return c
}

// Genres returns the client's genre lookup cache.
func (c *Client) Genres() *GenreCache { return c.genres }

// GenreIDs translates genre names to catalog IDs, silently dropping names
// the catalog no longer lists.
func (c *Client) GenreIDs(ctx context.Context, kind models.MediaKind, names []string) ([]int, error) {
	return c.genres.IDs(ctx, kind, names)
}

// ---- TMDB response types (internal, not exposed to consumers) ----

type listResponse struct {
	Page         int        `json:"page"`
	Results      []apiTitle `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// apiTitle covers both list and detail payloads for both media kinds.
// Numeric fields decode as json.Number so coercion failures fall back to
// zero instead of failing the whole payload.
type apiTitle struct {
	ID            json.Number `json:"id"`
	Title         string      `json:"title"`
	Name          string      `json:"name"`
	OriginalTitle string      `json:"original_title"`
	OriginalName  string      `json:"original_name"`
	Overview      string      `json:"overview"`
	ReleaseDate   string      `json:"release_date"`
	FirstAirDate  string      `json:"first_air_date"`
	PosterPath    string      `json:"poster_path"`
	BackdropPath  string      `json:"backdrop_path"`
	VoteAverage   json.Number `json:"vote_average"`
	VoteCount     json.Number `json:"vote_count"`
	Popularity    json.Number `json:"popularity"`
	GenreIDs      []int       `json:"genre_ids"`
	Genres        []apiGenre  `json:"genres"`
	Adult         bool        `json:"adult"`

	// Detail-only fields
	Runtime          json.Number `json:"runtime"`
	Budget           json.Number `json:"budget"`
	Revenue          json.Number `json:"revenue"`
	Tagline          string      `json:"tagline"`
	Status           string      `json:"status"`
	Homepage         string      `json:"homepage"`
	IMDBId           string      `json:"imdb_id"`
	NumberOfSeasons  json.Number `json:"number_of_seasons"`
	NumberOfEpisodes json.Number `json:"number_of_episodes"`
	InProduction     bool        `json:"in_production"`
}

type apiGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []apiGenre `json:"genres"`
}

type videoListResponse struct {
	Results []apiVideo `json:"results"`
}

type apiVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// ---- Client methods ----

// Search runs a free-text title search, capped at 10 results.
func (c *Client) Search(ctx context.Context, kind models.MediaKind, query string, page int) ([]models.Title, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(pageOrFirst(page)))

	var resp listResponse
	if err := c.get(ctx, "/search/"+string(kind), q, &resp); err != nil {
		return nil, err
	}
	return c.normalizeList(ctx, kind, resp.Results, listCap), nil
}

// DiscoverParams is a conjunctive filter query. The genre set is OR'd at
// the catalog level; rating floor and year bounds are ANDed.
type DiscoverParams struct {
	GenreIDs  []int
	MinRating float64
	YearFrom  int
	YearTo    int
	SortBy    string
	Page      int
}

// Discover runs a filtered listing request, capped at 20 results.
func (c *Client) Discover(ctx context.Context, kind models.MediaKind, p DiscoverParams) ([]models.Title, error) {
	q := url.Values{}

	if len(p.GenreIDs) > 0 {
		ids := make([]string, len(p.GenreIDs))
		for i, id := range p.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		// Pipe-delimited means OR at the catalog API level.
		q.Set("with_genres", strings.Join(ids, "|"))
	}

	if p.MinRating > 0 {
		q.Set("vote_average.gte", strconv.FormatFloat(p.MinRating, 'f', -1, 64))
		floor := movieVoteCountFloor
		if kind == models.KindTV {
			floor = tvVoteCountFloor
		}
		q.Set("vote_count.gte", strconv.Itoa(floor))
	}

	dateField := "primary_release_date"
	if kind == models.KindTV {
		dateField = "first_air_date"
	}
	if p.YearFrom > 0 {
		q.Set(dateField+".gte", fmt.Sprintf("%d-01-01", p.YearFrom))
	}
	if p.YearTo > 0 {
		q.Set(dateField+".lte", fmt.Sprintf("%d-12-31", p.YearTo))
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = SortPopularityDesc
	}
	q.Set("sort_by", sortBy)
	q.Set("page", strconv.Itoa(pageOrFirst(p.Page)))

	var resp listResponse
	if err := c.get(ctx, "/discover/"+string(kind), q, &resp); err != nil {
		return nil, err
	}
	return c.normalizeList(ctx, kind, resp.Results, discoverCap), nil
}

// Trending returns the trending list for a time window ("day" or "week").
func (c *Client) Trending(ctx context.Context, kind models.MediaKind, window string) ([]models.Title, error) {
	if window != "day" {
		window = "week"
	}

	var resp listResponse
	if err := c.get(ctx, fmt.Sprintf("/trending/%s/%s", kind, window), nil, &resp); err != nil {
		return nil, err
	}
	return c.normalizeList(ctx, kind, resp.Results, listCap), nil
}

// Popular returns the popular list for a media kind.
func (c *Client) Popular(ctx context.Context, kind models.MediaKind, page int) ([]models.Title, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageOrFirst(page)))

	var resp listResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/popular", kind), q, &resp); err != nil {
		return nil, err
	}
	return c.normalizeList(ctx, kind, resp.Results, listCap), nil
}

// Details fetches the full record for one catalog item.
func (c *Client) Details(ctx context.Context, kind models.MediaKind, id int) (*models.TitleDetail, error) {
	var raw apiTitle
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", kind, id), nil, &raw); err != nil {
		return nil, err
	}

	title, err := normalize(kind, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	detail := &models.TitleDetail{
		Title:            title,
		Runtime:          int(coerceInt(raw.Runtime)),
		Budget:           coerceInt(raw.Budget),
		Revenue:          coerceInt(raw.Revenue),
		Tagline:          raw.Tagline,
		Status:           raw.Status,
		Homepage:         raw.Homepage,
		IMDBId:           raw.IMDBId,
		NumberOfSeasons:  int(coerceInt(raw.NumberOfSeasons)),
		NumberOfEpisodes: int(coerceInt(raw.NumberOfEpisodes)),
		InProduction:     raw.InProduction,
	}
	return detail, nil
}

// Recommendations returns titles similar to the given one, capped at 10.
// For TV the provider's recommendations endpoint is often empty, so an
// empty result falls back to the similar endpoint.
func (c *Client) Recommendations(ctx context.Context, kind models.MediaKind, id, page int) ([]models.Title, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageOrFirst(page)))

	var resp listResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/recommendations", kind, id), q, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 && kind == models.KindTV {
		if err := c.get(ctx, fmt.Sprintf("/tv/%d/similar", id), q, &resp); err != nil {
			return nil, err
		}
	}

	return c.normalizeList(ctx, kind, resp.Results, listCap), nil
}

// TrailerURL returns the YouTube trailer URL for a title, or "" when the
// catalog has none. TV lookups fall back to any YouTube video.
func (c *Client) TrailerURL(ctx context.Context, kind models.MediaKind, id int) (string, error) {
	var resp videoListResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/videos", kind, id), nil, &resp); err != nil {
		return "", err
	}

	for _, v := range resp.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			return "https://www.youtube.com/watch?v=" + v.Key, nil
		}
	}

	if kind == models.KindTV {
		for _, v := range resp.Results {
			if v.Site == "YouTube" && v.Key != "" {
				return "https://www.youtube.com/watch?v=" + v.Key, nil
			}
		}
	}

	return "", nil
}

// fetchGenres loads the full genre table for one media kind.
func (c *Client) fetchGenres(ctx context.Context, kind models.MediaKind) (map[int]string, error) {
	var resp genreListResponse
	if err := c.get(ctx, fmt.Sprintf("/genre/%s/list", kind), nil, &resp); err != nil {
		return nil, err
	}

	table := make(map[int]string, len(resp.Genres))
	for _, g := range resp.Genres {
		table[g.ID] = g.Name
	}
	slog.Info("loaded catalog genres", "kind", kind, "count", len(table))
	return table, nil
}

// normalizeList maps raw records into normalized titles, skipping records
// that fail normalization and capping the result length.
func (c *Client) normalizeList(ctx context.Context, kind models.MediaKind, raws []apiTitle, capLen int) []models.Title {
	lookup, err := c.genres.Table(ctx, kind)
	if err != nil {
		slog.Warn("genre names unavailable", "kind", kind, "error", err)
		lookup = nil
	}

	out := make([]models.Title, 0, capLen)
	for _, raw := range raws {
		t, err := normalize(kind, raw, lookup)
		if err != nil {
			slog.Debug("skipping catalog record", "kind", kind, "error", err)
			continue
		}
		out = append(out, t)
		if len(out) >= capLen {
			break
		}
	}
	return out
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	slog.Debug("catalog request", "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
