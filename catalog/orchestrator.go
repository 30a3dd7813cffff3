package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

// DefaultRegion is used for now-playing lookups when none is configured
const DefaultRegion = "IT"

// LoadState is the observable progress of one orchestrator
type LoadState struct {
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

// Option configures an orchestrator
type Option func(*orchestrator)

// WithRegion sets the default region for now-playing lookups
func WithRegion(region string) Option {
	return func(o *orchestrator) {
		if region = strings.TrimSpace(region); region != "" {
			o.region = region
		}
	}
}

// intent describes one kind of load for logging and error reporting
type intent struct {
	context string
	failure string
}

// intents holds the per-kind wording of every load
type intents struct {
	popular    intent
	search     intent
	nowPlaying intent
	trending   intent
	byLanguage intent // failure is a format string taking the language
}

var movieIntents = intents{
	popular:    intent{context: "popular movies", failure: "failed to load popular movies"},
	search:     intent{context: "movie search", failure: "failed to search movies"},
	nowPlaying: intent{context: "movies now playing", failure: "failed to load movies now playing"},
	trending:   intent{context: "trending movies", failure: "failed to load trending movies"},
	byLanguage: intent{context: "movies by language", failure: "failed to load movies in %s"},
}

var tvIntents = intents{
	popular:    intent{context: "popular TV series", failure: "failed to load popular TV series"},
	search:     intent{context: "TV series search", failure: "failed to search TV series"},
	nowPlaying: intent{context: "TV series on the air", failure: "failed to load TV series on the air"},
	trending:   intent{context: "trending TV series", failure: "failed to load trending TV series"},
	byLanguage: intent{context: "TV series by language", failure: "failed to load TV series in %s"},
}

// orchestrator runs loads for a single content kind and writes the results
// into the store. Only the most recently started call may write.
type orchestrator struct {
	accessor tmdb.Accessor
	store    *store.Store
	logger   zerolog.Logger
	intents  intents
	region   string

	mu       sync.Mutex
	state    LoadState
	inFlight int
	latest   uint64
}

func newOrchestrator(accessor tmdb.Accessor, st *store.Store, logger zerolog.Logger, opts ...Option) *orchestrator {
	o := &orchestrator{
		accessor: accessor,
		store:    st,
		logger:   logger.With().Str("kind", string(accessor.Kind())).Logger(),
		intents:  movieIntents,
		region:   DefaultRegion,
	}
	if accessor.Kind() == tmdb.KindTV {
		o.intents = tvIntents
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current loading flag and error message
func (o *orchestrator) State() LoadState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Count returns the number of items in the store for this kind
func (o *orchestrator) Count() int {
	return len(o.store.Collection(o.accessor.Kind()))
}

// HasItems reports whether the store holds any items for this kind
func (o *orchestrator) HasItems() bool {
	return o.Count() > 0
}

// Items returns the store collection for this kind
func (o *orchestrator) Items() []tmdb.Item {
	return o.store.Collection(o.accessor.Kind())
}

// Kind returns the content kind this orchestrator loads
func (o *orchestrator) Kind() tmdb.Kind {
	return o.accessor.Kind()
}

func (o *orchestrator) loadPopular(ctx context.Context) error {
	return o.run(ctx, o.intents.popular, o.intents.popular.failure,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return o.accessor.Popular(ctx, nil)
		},
		func(items []tmdb.Item) { o.store.Update(o.accessor.Kind(), items, true) },
	)
}

func (o *orchestrator) search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return o.loadPopular(ctx)
	}
	return o.run(ctx, o.intents.search, o.intents.search.failure,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return o.accessor.Search(ctx, query, nil)
		},
		func(items []tmdb.Item) { o.store.Update(o.accessor.Kind(), items, true) },
	)
}

func (o *orchestrator) loadOrSearch(ctx context.Context) error {
	if term := o.store.SearchTerm(); term != "" {
		return o.search(ctx, term)
	}
	return o.loadPopular(ctx)
}

func (o *orchestrator) loadNowPlaying(ctx context.Context, region string) error {
	if region = strings.TrimSpace(region); region == "" {
		region = o.region
	}
	var opts tmdb.Options
	if o.accessor.Kind().IsMovie() {
		opts = tmdb.Options{"region": {region}}
	}
	return o.run(ctx, o.intents.nowPlaying, o.intents.nowPlaying.failure,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return o.accessor.NowPlaying(ctx, opts)
		},
		func(items []tmdb.Item) { o.store.Update(o.accessor.Kind(), items, false) },
	)
}

func (o *orchestrator) loadTrending(ctx context.Context) error {
	return o.run(ctx, o.intents.trending, o.intents.trending.failure,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return o.accessor.Trending(ctx, nil)
		},
		func(items []tmdb.Item) { o.store.UpdateTrendingOf(o.accessor.Kind(), items) },
	)
}

func (o *orchestrator) loadByLanguage(ctx context.Context, language string) error {
	language = strings.TrimSpace(language)
	failure := fmt.Sprintf(o.intents.byLanguage.failure, language)
	if language == "" {
		return o.reject(errors.New("language code is required"), failure)
	}
	return o.run(ctx, o.intents.byLanguage, failure,
		func(ctx context.Context) (*tmdb.Envelope, error) {
			return o.accessor.DiscoverByLanguage(ctx, language, nil)
		},
		func(items []tmdb.Item) { o.store.Update(o.accessor.Kind(), items, false) },
	)
}

// run executes fetch and hands the results to write if this call is still
// the latest one. Loading is cleared on every exit path.
func (o *orchestrator) run(ctx context.Context, in intent, failure string, fetch Fetch, write func([]tmdb.Item)) error {
	ticket := o.begin()
	defer o.end()

	env, err := fetch(ctx)
	if err != nil {
		HandleError(o.logger, err, in.context)
		o.mu.Lock()
		if ticket == o.latest {
			o.state.Err = failure
		}
		o.mu.Unlock()
		return fmt.Errorf("%s: %w", failure, err)
	}

	items := ExtractResults(env)

	o.mu.Lock()
	defer o.mu.Unlock()
	if ticket != o.latest {
		o.logger.Debug().
			Str("intent", in.context).
			Int("count", len(items)).
			Msg("Discarding superseded result")
		return nil
	}
	write(items)
	o.logger.Debug().
		Str("intent", in.context).
		Int("count", len(items)).
		Bool("more_pages", env != nil && env.HasMorePages()).
		Msg("Loaded")
	return nil
}

// reject records a failure that happened before any request was made
func (o *orchestrator) reject(err error, failure string) error {
	o.mu.Lock()
	o.latest++
	o.state.Err = failure
	o.mu.Unlock()
	return fmt.Errorf("%s: %w", failure, err)
}

func (o *orchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.latest++
	o.inFlight++
	o.state = LoadState{Loading: true}
	return o.latest
}

func (o *orchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight--
	o.state.Loading = o.inFlight > 0
}
