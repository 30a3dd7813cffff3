package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

// DefaultBrowseLanguage is used when language browsing is requested without a code
const DefaultBrowseLanguage = "it"

// Pages composes the loads behind each screen of the catalog
type Pages struct {
	Movies   *Movies
	TVSeries *TVSeries

	movies tmdb.Accessor
	tv     tmdb.Accessor
	store  *store.Store
	logger zerolog.Logger
	region string
}

// NewPages wires both orchestrators and the parallel page loads to one store
func NewPages(movies, tv tmdb.Accessor, st *store.Store, logger zerolog.Logger, opts ...Option) *Pages {
	p := &Pages{
		Movies:   NewMovies(movies, st, logger, opts...),
		TVSeries: NewTVSeries(tv, st, logger, opts...),
		movies:   movies,
		tv:       tv,
		store:    st,
		logger:   logger,
	}
	p.region = p.Movies.region
	return p
}

// Store returns the store the pages write into
func (p *Pages) Store() *store.Store {
	return p.store
}

// Home loads trending movies and series together into the trending slots.
// On failure the trending slots keep their previous contents.
func (p *Pages) Home(ctx context.Context) Pair {
	pair := LoadBoth(ctx, p.logger,
		func(ctx context.Context) (*tmdb.Envelope, error) { return p.movies.Trending(ctx, nil) },
		func(ctx context.Context) (*tmdb.Envelope, error) { return p.tv.Trending(ctx, nil) },
	)
	if pair.OK() {
		p.store.UpdateTrending(pair.Movies, pair.TVSeries)
	}
	return pair
}

// NewReleases loads movies now playing in region and series on the air
func (p *Pages) NewReleases(ctx context.Context, region string) Pair {
	if region = strings.TrimSpace(region); region == "" {
		region = p.region
	}
	pair := LoadBoth(ctx, p.logger,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return p.movies.NowPlaying(ctx, tmdb.Options{"region": {region}})
		},
		func(ctx context.Context) (*tmdb.Envelope, error) { return p.tv.NowPlaying(ctx, nil) },
	)
	if pair.OK() {
		p.store.UpdateBoth(pair.Movies, pair.TVSeries)
	}
	return pair
}

// BrowseByLanguage loads movies and series originally produced in language
func (p *Pages) BrowseByLanguage(ctx context.Context, language string) Pair {
	if language = strings.TrimSpace(language); language == "" {
		language = DefaultBrowseLanguage
	}
	pair := LoadBoth(ctx, p.logger,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return p.movies.DiscoverByLanguage(ctx, language, nil)
		},
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return p.tv.DiscoverByLanguage(ctx, language, nil)
		},
	)
	if pair.OK() {
		p.store.UpdateBoth(pair.Movies, pair.TVSeries)
	}
	return pair
}

// MoviesPage searches movies with the current search term or loads popular ones
func (p *Pages) MoviesPage(ctx context.Context) error {
	return p.Movies.LoadOrSearch(ctx)
}

// TVSeriesPage searches series with the current search term or loads popular ones
func (p *Pages) TVSeriesPage(ctx context.Context) error {
	return p.TVSeries.LoadOrSearch(ctx)
}

// Page loads the listing page for kind
func (p *Pages) Page(ctx context.Context, kind tmdb.Kind) error {
	switch kind {
	case tmdb.KindMovie:
		return p.MoviesPage(ctx)
	case tmdb.KindTV:
		return p.TVSeriesPage(ctx)
	default:
		return errors.New("unknown content kind: " + string(kind))
	}
}
