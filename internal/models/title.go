package models

import "fmt"

// MediaKind distinguishes movies from TV series. The catalog exposes the
// same operations for both, but field names and thresholds differ.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// ParseMediaKind validates a media kind received from the outside.
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case KindMovie, KindTV:
		return MediaKind(s), nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// Title is the normalized, kind-agnostic representation of a catalog item.
// Every catalog response shape is mapped into this one record format.
type Title struct {
	TMDBId        int       `json:"tmdb_id"`
	Kind          MediaKind `json:"media_type"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title"`
	Overview      string    `json:"overview"`
	PosterURL     string    `json:"poster_url,omitempty"`
	BackdropURL   string    `json:"backdrop_url,omitempty"`
	ReleaseDate   string    `json:"release_date"`
	Year          int       `json:"year,omitempty"`
	VoteAverage   float64   `json:"vote_average"`
	VoteCount     int       `json:"vote_count"`
	Popularity    float64   `json:"popularity"`
	GenreIDs      []int     `json:"genre_ids,omitempty"`
	Genres        []string  `json:"genres"`
	Adult         bool      `json:"adult"`
}

// TitleDetail extends Title with fields only present on the detail endpoint.
// TV-specific fields stay zero for movies and vice versa.
type TitleDetail struct {
	Title

	Runtime  int    `json:"runtime,omitempty"`
	Budget   int64  `json:"budget,omitempty"`
	Revenue  int64  `json:"revenue,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
	Status   string `json:"status,omitempty"`
	Homepage string `json:"homepage,omitempty"`
	IMDBId   string `json:"imdb_id,omitempty"`

	NumberOfSeasons  int  `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int  `json:"number_of_episodes,omitempty"`
	InProduction     bool `json:"in_production,omitempty"`
}
