package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

// TVSeries loads TV series collections into the store
type TVSeries struct {
	*orchestrator
}

// NewTVSeries creates a TV series orchestrator over the given accessor
func NewTVSeries(accessor tmdb.Accessor, st *store.Store, logger zerolog.Logger, opts ...Option) *TVSeries {
	return &TVSeries{orchestrator: newOrchestrator(accessor, st, logger, opts...)}
}

// LoadPopular replaces the TV series with the popular list and clears movies
func (t *TVSeries) LoadPopular(ctx context.Context) error {
	return t.loadPopular(ctx)
}

// Search replaces the TV series with search results and clears movies
func (t *TVSeries) Search(ctx context.Context, query string) error {
	return t.search(ctx, query)
}

// LoadOrSearch searches with the store's search term or loads popular series
func (t *TVSeries) LoadOrSearch(ctx context.Context) error {
	return t.loadOrSearch(ctx)
}

// LoadOnTheAir loads series with an episode airing in the next week
func (t *TVSeries) LoadOnTheAir(ctx context.Context) error {
	return t.loadNowPlaying(ctx, "")
}

// LoadTrending loads this week's trending series into the trending slot
func (t *TVSeries) LoadTrending(ctx context.Context) error {
	return t.loadTrending(ctx)
}

// LoadByLanguage loads popular series originally produced in language
func (t *TVSeries) LoadByLanguage(ctx context.Context, language string) error {
	return t.loadByLanguage(ctx, language)
}
