package catalog

import (
	"context"
	"sync"

	"moviemate/internal/models"
)

// GenreCache is a process-lifetime memoization of the catalog's genre
// tables, one per media kind. It populates lazily on first use and is
// never invalidated during normal operation; staleness over a long-running
// process is an accepted tradeoff. A racing double-populate writes
// identical data, so a plain mutex over the whole lookup is enough.
type GenreCache struct {
	mu     sync.Mutex
	fetch  func(ctx context.Context, kind models.MediaKind) (map[int]string, error)
	tables map[models.MediaKind]map[int]string
}

// NewGenreCache creates a cache backed by the given fetch function.
func NewGenreCache(fetch func(ctx context.Context, kind models.MediaKind) (map[int]string, error)) *GenreCache {
	return &GenreCache{
		fetch:  fetch,
		tables: make(map[models.MediaKind]map[int]string),
	}
}

// Table returns the id-to-name genre table for a media kind, fetching it
// on first use.
func (g *GenreCache) Table(ctx context.Context, kind models.MediaKind) (map[int]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if table, ok := g.tables[kind]; ok {
		return table, nil
	}

	table, err := g.fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	g.tables[kind] = table
	return table, nil
}

// Names resolves genre IDs to names. IDs the catalog does not know map to
// "Unknown".
func (g *GenreCache) Names(ctx context.Context, kind models.MediaKind, ids []int) ([]string, error) {
	table, err := g.Table(ctx, kind)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := table[id]
		if !ok {
			name = unknownTitle
		}
		names = append(names, name)
	}
	return names, nil
}

// IDs resolves genre names back to catalog IDs. Names no longer present in
// the catalog's current genre list are silently dropped.
func (g *GenreCache) IDs(ctx context.Context, kind models.MediaKind, names []string) ([]int, error) {
	table, err := g.Table(ctx, kind)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(table))
	for id, name := range table {
		byName[name] = id
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Invalidate drops all cached tables so the next lookup refetches.
func (g *GenreCache) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tables = make(map[models.MediaKind]map[int]string)
}
