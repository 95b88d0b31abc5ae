package session

import (
	"slices"

	"moviemate/internal/models"
)

// FilterState is the per-user filter-building state for one interactive
// discovery flow. Genres are kept as names, not IDs: names stay stable
// across menu redraws while the ID mapping lives in the genre cache and is
// only resolved at execution time.
type FilterState struct {
	Genres    []string `json:"genres"`
	YearFrom  *int     `json:"year_from,omitempty"`
	YearTo    *int     `json:"year_to,omitempty"`
	MinRating float64  `json:"min_rating"`
}

// DefaultFilters returns the state a fresh or reset flow starts from.
func DefaultFilters() FilterState {
	return FilterState{
		Genres:    []string{},
		MinRating: models.DefaultMinRating,
	}
}

// IsDefault reports whether the state equals the defaults.
func (f FilterState) IsDefault() bool {
	return len(f.Genres) == 0 &&
		f.YearFrom == nil &&
		f.YearTo == nil &&
		f.MinRating == models.DefaultMinRating
}

// ToggleGenre adds the genre if absent and removes it if present,
// reporting whether it is selected afterwards. Order-independent: toggling
// twice restores the original selection.
func (f *FilterState) ToggleGenre(name string) bool {
	if i := slices.Index(f.Genres, name); i >= 0 {
		f.Genres = slices.Delete(f.Genres, i, i+1)
		return false
	}
	f.Genres = append(f.Genres, name)
	return true
}

// SetYearRange replaces both year bounds atomically.
func (f *FilterState) SetYearRange(from, to int) {
	f.YearFrom = &from
	f.YearTo = &to
}

// ClearYearRange removes both year bounds.
func (f *FilterState) ClearYearRange() {
	f.YearFrom = nil
	f.YearTo = nil
}

// SetMinRating replaces the rating floor.
func (f *FilterState) SetMinRating(rating float64) {
	f.MinRating = rating
}

// Reset restores the defaults. When the state already equals the defaults
// it reports false and mutates nothing, so the caller can surface a
// distinct "already default" notice.
func (f *FilterState) Reset() bool {
	if f.IsDefault() {
		return false
	}
	*f = DefaultFilters()
	return true
}
