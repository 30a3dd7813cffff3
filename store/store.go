// Package store holds the shared application state: the current movie and
// TV collections, the trending collections, the active search term and the
// query parameters sent with every TMDB request.
//
// State is only changed through the updater methods. Each update replaces
// whole slots and then notifies subscribers, so readers never see a
// half-written collection.
package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/s0up4200/boolflix/tmdb"
)

// Slot names a piece of state that can change
type Slot string

const (
	SlotMovies           Slot = "movies"
	SlotTVSeries         Slot = "tv_series"
	SlotTrendingMovies   Slot = "trending_movies"
	SlotTrendingTVSeries Slot = "trending_tv_series"
	SlotSearchFilter     Slot = "search_filter"
	SlotQueryParams      Slot = "query_params"
)

// Change is published after every update
type Change struct {
	Slots []Slot
}

// Has reports whether the change touched slot
func (c Change) Has(slot Slot) bool {
	return slices.Contains(c.Slots, slot)
}

// Snapshot is a copy of the whole state at one point in time
type Snapshot struct {
	Movies           []tmdb.Item      `json:"movies"`
	TVSeries         []tmdb.Item      `json:"tv_series"`
	TrendingMovies   []tmdb.Item      `json:"trending_movies"`
	TrendingTVSeries []tmdb.Item      `json:"trending_tv_series"`
	SearchFilter     string           `json:"search_filter"`
	QueryParams      tmdb.QueryParams `json:"-"`
}

// Store is the single source of truth for loaded content
type Store struct {
	mu sync.RWMutex

	movies           []tmdb.Item
	tvSeries         []tmdb.Item
	trendingMovies   []tmdb.Item
	trendingTVSeries []tmdb.Item
	searchFilter     string
	queryParams      tmdb.QueryParams

	subMu       sync.Mutex
	subscribers map[int]chan Change
	nextSubID   int
}

// New creates a store with the given query parameters and empty collections
func New(params tmdb.QueryParams) *Store {
	return &Store{
		movies:           []tmdb.Item{},
		tvSeries:         []tmdb.Item{},
		trendingMovies:   []tmdb.Item{},
		trendingTVSeries: []tmdb.Item{},
		queryParams:      params,
		subscribers:      make(map[int]chan Change),
	}
}

// QueryParams implements tmdb.ParamsSource
func (s *Store) QueryParams() tmdb.QueryParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryParams
}

// Movies returns a copy of the movies slot
func (s *Store) Movies() []tmdb.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

// TVSeries returns a copy of the TV series slot
func (s *Store) TVSeries() []tmdb.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tvSeries)
}

// TrendingMovies returns a copy of the trending movies slot
func (s *Store) TrendingMovies() []tmdb.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trendingMovies)
}

// TrendingTVSeries returns a copy of the trending TV series slot
func (s *Store) TrendingTVSeries() []tmdb.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trendingTVSeries)
}

// Collection returns the main slot for kind
func (s *Store) Collection(kind tmdb.Kind) []tmdb.Item {
	if kind == tmdb.KindTV {
		return s.TVSeries()
	}
	return s.Movies()
}

// Trending returns the trending slot for kind
func (s *Store) Trending(kind tmdb.Kind) []tmdb.Item {
	if kind == tmdb.KindTV {
		return s.TrendingTVSeries()
	}
	return s.TrendingMovies()
}

// SearchFilter returns the raw search term
func (s *Store) SearchFilter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchFilter
}

// SearchTerm returns the trimmed search term; empty means "no search"
func (s *Store) SearchTerm() string {
	return strings.TrimSpace(s.SearchFilter())
}

// Snapshot copies every slot under a single read lock
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Movies:           slices.Clone(s.movies),
		TVSeries:         slices.Clone(s.tvSeries),
		TrendingMovies:   slices.Clone(s.trendingMovies),
		TrendingTVSeries: slices.Clone(s.trendingTVSeries),
		SearchFilter:     s.searchFilter,
		QueryParams:      s.queryParams,
	}
}
