package presenter

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviemate/internal/models"
)

type fakeFlags struct {
	favorite bool
	watched  bool
}

func (f *fakeFlags) IsFavorite(context.Context, int, int) (bool, error) { return f.favorite, nil }
func (f *fakeFlags) IsWatched(context.Context, int, int) (bool, error)  { return f.watched, nil }

func inceptionDetail() *models.TitleDetail {
	return &models.TitleDetail{
		Title: models.Title{
			TMDBId:      27205,
			Kind:        models.KindMovie,
			Title:       "Inception",
			Year:        2010,
			VoteAverage: 8.8,
			Genres:      []string{"Action", "Science Fiction"},
			Overview:    "A thief who steals corporate secrets through dream-sharing technology.",
		},
		Runtime: 148,
	}
}

func TestBuildPage(t *testing.T) {
	results := []models.Title{
		{TMDBId: 27205, Kind: models.KindMovie, Title: "Inception", Year: 2010, VoteAverage: 8.8, PosterURL: "https://img/p.jpg"},
		{TMDBId: 603, Kind: models.KindMovie, Title: "The Matrix", Year: 1999, VoteAverage: 8.2},
	}

	page := BuildPage(results)

	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, 27205, page.Entries[0].TMDBId)
	assert.Equal(t, "Inception", page.Entries[0].Title)
	assert.Equal(t, 2010, page.Entries[0].Year)
	assert.Equal(t, "https://img/p.jpg", page.Entries[0].PosterURL)
}

func TestBuildPageEmpty(t *testing.T) {
	page := BuildPage(nil)
	assert.Zero(t, page.Count)
	assert.NotNil(t, page.Entries)
}

func TestDetailsAffordances(t *testing.T) {
	tests := []struct {
		name     string
		favorite bool
		watched  bool
		want     []Action
	}{
		{"neither", false, false, []Action{ActionFavorite, ActionMarkWatched}},
		{"favorite only", true, false, []Action{ActionUnfavorite, ActionMarkWatched}},
		{"watched only", false, true, []Action{ActionFavorite, ActionUnmarkWatched}},
		{"both", true, true, []Action{ActionUnfavorite, ActionUnmarkWatched}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&fakeFlags{favorite: tt.favorite, watched: tt.watched})

			view, err := p.Details(context.Background(), 1, inceptionDetail())
			require.NoError(t, err)

			assert.Equal(t, tt.favorite, view.IsFavorite)
			assert.Equal(t, tt.watched, view.IsWatched)
			assert.Equal(t, tt.want, view.Actions)
		})
	}
}

func TestDetailsResolveFlagsFreshEachView(t *testing.T) {
	flags := &fakeFlags{}
	p := New(flags)
	ctx := context.Background()

	view, err := p.Details(ctx, 1, inceptionDetail())
	require.NoError(t, err)
	assert.False(t, view.IsFavorite)
	assert.Contains(t, view.Actions, ActionFavorite)

	// The user favorites the title between views.
	flags.favorite = true

	view, err = p.Details(ctx, 1, inceptionDetail())
	require.NoError(t, err)
	assert.True(t, view.IsFavorite)
	assert.Contains(t, view.Actions, ActionUnfavorite)
	assert.NotContains(t, view.Actions, ActionFavorite)
}

func TestFormatCard(t *testing.T) {
	card := FormatCard(inceptionDetail().Title)

	assert.Contains(t, card, "Inception (2010)")
	assert.Contains(t, card, "Rating: 8.8/10")
	assert.Contains(t, card, "Genres: Action, Science Fiction")
	assert.Contains(t, card, "dream-sharing technology")
}

func TestFormatCardWithoutOptionalFields(t *testing.T) {
	card := FormatCard(models.Title{Title: "Mystery Item", VoteAverage: 0})

	assert.Contains(t, card, "Mystery Item\n")
	assert.NotContains(t, card, "(0)")
	assert.NotContains(t, card, "Genres:")
	assert.Contains(t, card, "No description available.")
}

func TestFormatCardTruncatesLongOverview(t *testing.T) {
	title := models.Title{
		Title:    "Long One",
		Overview: strings.Repeat("é", 400),
	}

	card := FormatCard(title)

	overview := card[strings.LastIndex(card, "\n\n")+2:]
	assert.True(t, strings.HasSuffix(overview, "..."))
	assert.Equal(t, 300, utf8.RuneCountInString(overview))
}
