package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviemate/internal/models"
)

func TestNormalizeMovie(t *testing.T) {
	genres := map[int]string{28: "Action", 53: "Thriller"}

	raw := apiTitle{
		ID:            "27205",
		Title:         "Inception",
		OriginalTitle: "Inception",
		Overview:      "A thief who steals corporate secrets.",
		ReleaseDate:   "2010-07-15",
		PosterPath:    "/poster.jpg",
		BackdropPath:  "/backdrop.jpg",
		VoteAverage:   "8.8",
		VoteCount:     "36000",
		Popularity:    "91.5",
		GenreIDs:      []int{28, 53},
	}

	title, err := normalize(models.KindMovie, raw, genres)
	require.NoError(t, err)

	assert.Equal(t, 27205, title.TMDBId)
	assert.Equal(t, models.KindMovie, title.Kind)
	assert.Equal(t, "Inception", title.Title)
	assert.Equal(t, 2010, title.Year)
	assert.Equal(t, 8.8, title.VoteAverage)
	assert.Equal(t, 36000, title.VoteCount)
	assert.Equal(t, []string{"Action", "Thriller"}, title.Genres)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", title.PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/backdrop.jpg", title.BackdropURL)
}

func TestNormalizeTVUsesNameFields(t *testing.T) {
	raw := apiTitle{
		ID:           "1396",
		Name:         "Breaking Bad",
		OriginalName: "Breaking Bad",
		FirstAirDate: "2008-01-20",
	}

	title, err := normalize(models.KindTV, raw, nil)
	require.NoError(t, err)

	assert.Equal(t, "Breaking Bad", title.Title)
	assert.Equal(t, models.KindTV, title.Kind)
	assert.Equal(t, "2008-01-20", title.ReleaseDate)
	assert.Equal(t, 2008, title.Year)
}

func TestNormalizeTitleFallbacks(t *testing.T) {
	t.Run("falls back to original title", func(t *testing.T) {
		title, err := normalize(models.KindMovie, apiTitle{ID: "1", OriginalTitle: "Oldboy"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Oldboy", title.Title)
	})

	t.Run("unknown sentinel when no title at all", func(t *testing.T) {
		title, err := normalize(models.KindMovie, apiTitle{ID: "1"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Unknown", title.Title)
		assert.Equal(t, "Unknown", title.OriginalTitle)
	})
}

func TestNormalizeMissingIDFails(t *testing.T) {
	_, err := normalize(models.KindMovie, apiTitle{Title: "No ID"}, nil)
	assert.Error(t, err)

	_, err = normalize(models.KindMovie, apiTitle{ID: "0", Title: "Zero ID"}, nil)
	assert.Error(t, err)
}

func TestNormalizeBadValuesFallBackToZero(t *testing.T) {
	raw := apiTitle{
		ID:          "42",
		Title:       "Glitch",
		ReleaseDate: "soon",
		VoteAverage: "not-a-number",
		VoteCount:   "",
		Popularity:  "NaNish",
	}

	title, err := normalize(models.KindMovie, raw, nil)
	require.NoError(t, err)

	assert.Zero(t, title.Year)
	assert.Zero(t, title.VoteAverage)
	assert.Zero(t, title.VoteCount)
	assert.Zero(t, title.Popularity)
	assert.Empty(t, title.PosterURL)
	assert.Empty(t, title.BackdropURL)
}

func TestNormalizeFloatIntegralField(t *testing.T) {
	title, err := normalize(models.KindMovie, apiTitle{ID: "7", Title: "X", VoteCount: "120.0"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 120, title.VoteCount)
}

func TestNormalizeDetailGenres(t *testing.T) {
	raw := apiTitle{
		ID:     "10",
		Title:  "Alien",
		Genres: []apiGenre{{ID: 27, Name: "Horror"}, {ID: 878, Name: "Science Fiction"}},
	}

	// Detail payloads carry resolved genre objects; the lookup table is
	// not consulted.
	title, err := normalize(models.KindMovie, raw, map[int]string{27: "Wrong"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Horror", "Science Fiction"}, title.Genres)
	assert.Equal(t, []int{27, 878}, title.GenreIDs)
}

func TestNormalizeUnknownGenreID(t *testing.T) {
	raw := apiTitle{ID: "11", Title: "X", GenreIDs: []int{28, 999}}

	title, err := normalize(models.KindMovie, raw, map[int]string{28: "Action"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Action", "Unknown"}, title.Genres)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2010, parseYear("2010-07-15"))
	assert.Equal(t, 1999, parseYear("1999"))
	assert.Zero(t, parseYear(""))
	assert.Zero(t, parseYear("abc"))
	assert.Zero(t, parseYear("20"))
}
