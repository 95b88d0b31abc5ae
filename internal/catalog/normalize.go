package catalog

import (
	"encoding/json"
	"errors"
	"strconv"

	"moviemate/internal/models"
)

// unknownTitle is the sentinel used when no title field is present.
const unknownTitle = "Unknown"

// normalize maps one raw catalog record into the normalized form. The
// title and date fields differ by media kind, so each kind has its own
// mapping; everything else is shared. A record without a usable ID is a
// normalization failure, not a silent skip at this level.
func normalize(kind models.MediaKind, raw apiTitle, genreNames map[int]string) (models.Title, error) {
	if kind == models.KindTV {
		return normalizeTV(raw, genreNames)
	}
	return normalizeMovie(raw, genreNames)
}

func normalizeMovie(raw apiTitle, genreNames map[int]string) (models.Title, error) {
	title := raw.Title
	original := raw.OriginalTitle
	if title == "" {
		title = original
	}
	if title == "" {
		title = unknownTitle
	}
	if original == "" {
		original = title
	}
	return finish(models.KindMovie, raw, title, original, raw.ReleaseDate, genreNames)
}

func normalizeTV(raw apiTitle, genreNames map[int]string) (models.Title, error) {
	title := raw.Name
	original := raw.OriginalName
	if title == "" {
		title = original
	}
	if title == "" {
		title = unknownTitle
	}
	if original == "" {
		original = title
	}
	return finish(models.KindTV, raw, title, original, raw.FirstAirDate, genreNames)
}

func finish(kind models.MediaKind, raw apiTitle, title, original, releaseDate string, genreNames map[int]string) (models.Title, error) {
	id := int(coerceInt(raw.ID))
	if id == 0 {
		return models.Title{}, errors.New("record has no catalog id")
	}

	genreIDs := raw.GenreIDs
	var genres []string
	switch {
	case len(raw.Genres) > 0:
		// Detail payloads embed resolved genre objects.
		genreIDs = make([]int, 0, len(raw.Genres))
		genres = make([]string, 0, len(raw.Genres))
		for _, g := range raw.Genres {
			genreIDs = append(genreIDs, g.ID)
			genres = append(genres, g.Name)
		}
	case len(genreIDs) > 0 && genreNames != nil:
		genres = make([]string, 0, len(genreIDs))
		for _, gid := range genreIDs {
			name, ok := genreNames[gid]
			if !ok {
				name = unknownTitle
			}
			genres = append(genres, name)
		}
	}

	return models.Title{
		TMDBId:        id,
		Kind:          kind,
		Title:         title,
		OriginalTitle: original,
		Overview:      raw.Overview,
		PosterURL:     posterURL(raw.PosterPath),
		BackdropURL:   backdropURL(raw.BackdropPath),
		ReleaseDate:   releaseDate,
		Year:          parseYear(releaseDate),
		VoteAverage:   coerceFloat(raw.VoteAverage),
		VoteCount:     int(coerceInt(raw.VoteCount)),
		Popularity:    coerceFloat(raw.Popularity),
		GenreIDs:      genreIDs,
		Genres:        genres,
		Adult:         raw.Adult,
	}, nil
}

// parseYear extracts the year from a YYYY-MM-DD date string. Parse
// failures yield 0, never an error.
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterBaseURL + path
}

func backdropURL(path string) string {
	if path == "" {
		return ""
	}
	return backdropBaseURL + path
}

func coerceFloat(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func coerceInt(n json.Number) int64 {
	if n == "" {
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		// TMDB occasionally sends integral fields as floats.
		if f, ferr := n.Float64(); ferr == nil {
			return int64(f)
		}
		return 0
	}
	return i
}
