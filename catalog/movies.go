package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

// Movies loads movie collections into the store
type Movies struct {
	*orchestrator
}

// NewMovies creates a movie orchestrator over the given accessor
func NewMovies(accessor tmdb.Accessor, st *store.Store, logger zerolog.Logger, opts ...Option) *Movies {
	return &Movies{orchestrator: newOrchestrator(accessor, st, logger, opts...)}
}

// LoadPopular replaces the movies with the popular list and clears TV series
func (m *Movies) LoadPopular(ctx context.Context) error {
	return m.loadPopular(ctx)
}

// Search replaces the movies with search results and clears TV series.
// A blank query loads the popular list instead.
func (m *Movies) Search(ctx context.Context, query string) error {
	return m.search(ctx, query)
}

// LoadOrSearch searches with the store's search term, or loads popular
// movies when the term is blank
func (m *Movies) LoadOrSearch(ctx context.Context) error {
	return m.loadOrSearch(ctx)
}

// LoadNowPlaying loads movies in theaters for region, falling back to the
// configured region when region is empty
func (m *Movies) LoadNowPlaying(ctx context.Context, region string) error {
	return m.loadNowPlaying(ctx, region)
}

// LoadTrending loads this week's trending movies into the trending slot
func (m *Movies) LoadTrending(ctx context.Context) error {
	return m.loadTrending(ctx)
}

// LoadByLanguage loads popular movies originally produced in language
func (m *Movies) LoadByLanguage(ctx context.Context, language string) error {
	return m.loadByLanguage(ctx, language)
}
