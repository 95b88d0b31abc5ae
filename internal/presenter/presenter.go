// Package presenter maps normalized catalog results plus per-user state
// into display-ready structures for the messaging front-end. Formatting a
// concrete message is the front-end's job; the mapping contract lives here.
package presenter

import (
	"context"
	"fmt"
	"strings"

	"moviemate/internal/models"
)

// FlagSource resolves a user's relationship to a catalog item.
type FlagSource interface {
	IsFavorite(ctx context.Context, userID, tmdbID int) (bool, error)
	IsWatched(ctx context.Context, userID, tmdbID int) (bool, error)
}

// Action is an affordance the front-end may offer on a details view.
// Favorite/unfavorite and watch/unwatch are mutually exclusive pairs.
type Action string

const (
	ActionFavorite      Action = "favorite"
	ActionUnfavorite    Action = "unfavorite"
	ActionMarkWatched   Action = "mark_watched"
	ActionUnmarkWatched Action = "unmark_watched"
)

// Entry is one selectable row in a result list.
type Entry struct {
	TMDBId      int              `json:"tmdb_id"`
	Kind        models.MediaKind `json:"media_type"`
	Title       string           `json:"title"`
	Year        int              `json:"year,omitempty"`
	VoteAverage float64          `json:"vote_average"`
	PosterURL   string           `json:"poster_url,omitempty"`
}

// Page is a display-ready result list.
type Page struct {
	Entries []Entry `json:"entries"`
	Count   int     `json:"count"`
}

// DetailView is a display-ready details response. The flags are resolved
// fresh for every view, never cached across views, since they can change
// between views.
type DetailView struct {
	Detail     *models.TitleDetail `json:"detail"`
	Card       string              `json:"card"`
	IsFavorite bool                `json:"is_favorite"`
	IsWatched  bool                `json:"is_watched"`
	Actions    []Action            `json:"actions"`
	TrailerURL string              `json:"trailer_url,omitempty"`
}

// Presenter builds display structures, pulling membership flags from the
// user store.
type Presenter struct {
	flags FlagSource
}

// New creates a Presenter.
func New(flags FlagSource) *Presenter {
	return &Presenter{flags: flags}
}

// BuildPage maps a normalized result list into selectable entries.
func BuildPage(results []models.Title) Page {
	entries := make([]Entry, 0, len(results))
	for _, t := range results {
		entries = append(entries, Entry{
			TMDBId:      t.TMDBId,
			Kind:        t.Kind,
			Title:       t.Title,
			Year:        t.Year,
			VoteAverage: t.VoteAverage,
			PosterURL:   t.PosterURL,
		})
	}
	return Page{Entries: entries, Count: len(entries)}
}

// Details resolves the user's flags for one title and picks the matching
// affordances.
func (p *Presenter) Details(ctx context.Context, userID int, detail *models.TitleDetail) (*DetailView, error) {
	isFavorite, err := p.flags.IsFavorite(ctx, userID, detail.TMDBId)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve favorite flag: %w", err)
	}
	isWatched, err := p.flags.IsWatched(ctx, userID, detail.TMDBId)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watched flag: %w", err)
	}

	actions := make([]Action, 0, 2)
	if isFavorite {
		actions = append(actions, ActionUnfavorite)
	} else {
		actions = append(actions, ActionFavorite)
	}
	if isWatched {
		actions = append(actions, ActionUnmarkWatched)
	} else {
		actions = append(actions, ActionMarkWatched)
	}

	return &DetailView{
		Detail:     detail,
		Card:       FormatCard(detail.Title),
		IsFavorite: isFavorite,
		IsWatched:  isWatched,
		Actions:    actions,
	}, nil
}

const overviewLimit = 300

// FormatCard renders the plain-text card body for one title.
func FormatCard(t models.Title) string {
	var b strings.Builder

	b.WriteString(t.Title)
	if t.Year > 0 {
		fmt.Fprintf(&b, " (%d)", t.Year)
	}
	fmt.Fprintf(&b, "\n\nRating: %.1f/10", t.VoteAverage)
	if len(t.Genres) > 0 {
		fmt.Fprintf(&b, "\nGenres: %s", strings.Join(t.Genres, ", "))
	}

	overview := t.Overview
	if overview == "" {
		overview = "No description available."
	}
	if runes := []rune(overview); len(runes) > overviewLimit {
		overview = string(runes[:overviewLimit-3]) + "..."
	}
	b.WriteString("\n\n")
	b.WriteString(overview)

	return b.String()
}
