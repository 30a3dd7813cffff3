package store

import (
	"slices"

	"github.com/s0up4200/boolflix/tmdb"
)

// UpdateMovies replaces the movies slot, optionally clearing TV series
func (s *Store) UpdateMovies(movies []tmdb.Item, clearTV bool) {
	s.Update(tmdb.KindMovie, movies, clearTV)
}

// UpdateTVSeries replaces the TV series slot, optionally clearing movies
func (s *Store) UpdateTVSeries(tvSeries []tmdb.Item, clearMovies bool) {
	s.Update(tmdb.KindTV, tvSeries, clearMovies)
}

// Update replaces the main slot for kind, optionally clearing the other kind
func (s *Store) Update(kind tmdb.Kind, items []tmdb.Item, clearSibling bool) {
	s.mu.Lock()
	target, slot := s.slot(kind)
	*target = normalize(items)
	slots := []Slot{slot}
	if clearSibling {
		sibling, siblingSlot := s.slot(kind.Sibling())
		*sibling = []tmdb.Item{}
		slots = append(slots, siblingSlot)
	}
	s.mu.Unlock()

	s.publish(Change{Slots: slots})
}

// UpdateTrending replaces both trending slots
func (s *Store) UpdateTrending(movies, tvSeries []tmdb.Item) {
	s.mu.Lock()
	s.trendingMovies = normalize(movies)
	s.trendingTVSeries = normalize(tvSeries)
	s.mu.Unlock()

	s.publish(Change{Slots: []Slot{SlotTrendingMovies, SlotTrendingTVSeries}})
}

// UpdateTrendingOf replaces the trending slot of a single kind
func (s *Store) UpdateTrendingOf(kind tmdb.Kind, items []tmdb.Item) {
	s.mu.Lock()
	slot := SlotTrendingMovies
	if kind == tmdb.KindTV {
		s.trendingTVSeries = normalize(items)
		slot = SlotTrendingTVSeries
	} else {
		s.trendingMovies = normalize(items)
	}
	s.mu.Unlock()

	s.publish(Change{Slots: []Slot{slot}})
}

// UpdateBoth replaces movies and TV series together
func (s *Store) UpdateBoth(movies, tvSeries []tmdb.Item) {
	s.mu.Lock()
	s.movies = normalize(movies)
	s.tvSeries = normalize(tvSeries)
	s.mu.Unlock()

	s.publish(Change{Slots: []Slot{SlotMovies, SlotTVSeries}})
}

// SetSearchFilter stores the search term as typed
func (s *Store) SetSearchFilter(term string) {
	s.mu.Lock()
	s.searchFilter = term
	s.mu.Unlock()

	s.publish(Change{Slots: []Slot{SlotSearchFilter}})
}

// SetQueryParams swaps the credential and locale used by the next request
func (s *Store) SetQueryParams(params tmdb.QueryParams) {
	s.mu.Lock()
	s.queryParams = params
	s.mu.Unlock()

	s.publish(Change{Slots: []Slot{SlotQueryParams}})
}

// slot returns the main collection for kind; callers hold mu
func (s *Store) slot(kind tmdb.Kind) (*[]tmdb.Item, Slot) {
	if kind == tmdb.KindTV {
		return &s.tvSeries, SlotTVSeries
	}
	return &s.movies, SlotMovies
}

// normalize copies items so callers cannot alias the stored slice
func normalize(items []tmdb.Item) []tmdb.Item {
	if items == nil {
		return []tmdb.Item{}
	}
	return slices.Clone(items)
}
