package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

var errUpstream = &tmdb.APIError{StatusCode: 503, Message: "Service Unavailable"}

func TestMoviesSearchClearsTV(t *testing.T) {
	st := store.New(tmdb.QueryParams{APIKey: "k"})
	st.UpdateTVSeries(items(tmdb.KindTV, "Dark", "Lost"), false)

	fake := newFake(tmdb.KindMovie, func(_ context.Context, c call) (*tmdb.Envelope, error) {
		return envelope(tmdb.KindMovie, "Batman Begins", "The Batman"), nil
	})
	m := NewMovies(fake, st, nopLogger())

	require.NoError(t, m.Search(context.Background(), "  batman "))

	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "search", calls[0].method)
	assert.Equal(t, "batman", calls[0].arg)
	assert.Len(t, st.Movies(), 2)
	assert.Empty(t, st.TVSeries())
	assert.Equal(t, 2, m.Count())
	assert.True(t, m.HasItems())
	assert.Equal(t, LoadState{}, m.State())
}

func TestSearchBlankLoadsPopular(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		fake := newFake(tmdb.KindTV, func(_ context.Context, c call) (*tmdb.Envelope, error) {
			return envelope(tmdb.KindTV, "Popular Show"), nil
		})
		tv := NewTVSeries(fake, store.New(tmdb.QueryParams{}), nopLogger())

		require.NoError(t, tv.Search(context.Background(), query))

		calls := fake.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, "popular", calls[0].method, "query %q", query)
	}
}

func TestLoadOrSearch(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantMethod string
		wantArg    string
	}{
		{name: "no filter", filter: "", wantMethod: "popular"},
		{name: "whitespace filter", filter: "   ", wantMethod: "popular"},
		{name: "filter", filter: " dune ", wantMethod: "search", wantArg: "dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New(tmdb.QueryParams{})
			st.SetSearchFilter(tt.filter)
			fake := newFake(tmdb.KindMovie, nil)
			m := NewMovies(fake, st, nopLogger())

			require.NoError(t, m.LoadOrSearch(context.Background()))

			calls := fake.recorded()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantMethod, calls[0].method)
			assert.Equal(t, tt.wantArg, calls[0].arg)
		})
	}
}

func TestFailureLeavesSlotUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		kind    tmdb.Kind
		load    func(m *Movies, tv *TVSeries) error
		wantErr string
	}{
		{
			name:    "popular movies",
			kind:    tmdb.KindMovie,
			load:    func(m *Movies, _ *TVSeries) error { return m.LoadPopular(context.Background()) },
			wantErr: "failed to load popular movies",
		},
		{
			name:    "movie search",
			kind:    tmdb.KindMovie,
			load:    func(m *Movies, _ *TVSeries) error { return m.Search(context.Background(), "heat") },
			wantErr: "failed to search movies",
		},
		{
			name:    "movies now playing",
			kind:    tmdb.KindMovie,
			load:    func(m *Movies, _ *TVSeries) error { return m.LoadNowPlaying(context.Background(), "") },
			wantErr: "failed to load movies now playing",
		},
		{
			name:    "movies by language",
			kind:    tmdb.KindMovie,
			load:    func(m *Movies, _ *TVSeries) error { return m.LoadByLanguage(context.Background(), "fr") },
			wantErr: "failed to load movies in fr",
		},
		{
			name:    "popular series",
			kind:    tmdb.KindTV,
			load:    func(_ *Movies, tv *TVSeries) error { return tv.LoadPopular(context.Background()) },
			wantErr: "failed to load popular TV series",
		},
		{
			name:    "series on the air",
			kind:    tmdb.KindTV,
			load:    func(_ *Movies, tv *TVSeries) error { return tv.LoadOnTheAir(context.Background()) },
			wantErr: "failed to load TV series on the air",
		},
		{
			name:    "series by language",
			kind:    tmdb.KindTV,
			load:    func(_ *Movies, tv *TVSeries) error { return tv.LoadByLanguage(context.Background(), "ja") },
			wantErr: "failed to load TV series in ja",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New(tmdb.QueryParams{})
			st.UpdateBoth(items(tmdb.KindMovie, "Heat"), items(tmdb.KindTV, "Dark"))

			failing := func(context.Context, call) (*tmdb.Envelope, error) { return nil, errUpstream }
			m := NewMovies(newFake(tmdb.KindMovie, failing), st, nopLogger())
			tv := NewTVSeries(newFake(tmdb.KindTV, failing), st, nopLogger())

			err := tt.load(m, tv)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, 503, tmdb.StatusCode(err))

			state := m.State()
			if tt.kind == tmdb.KindTV {
				state = tv.State()
			}
			assert.False(t, state.Loading)
			assert.Equal(t, tt.wantErr, state.Err)

			assert.Len(t, st.Movies(), 1)
			assert.Len(t, st.TVSeries(), 1)
		})
	}
}

func TestErrorClearedOnNextCall(t *testing.T) {
	fail := true
	fake := newFake(tmdb.KindMovie, func(context.Context, call) (*tmdb.Envelope, error) {
		if fail {
			return nil, errUpstream
		}
		return envelope(tmdb.KindMovie, "Heat"), nil
	})
	m := NewMovies(fake, store.New(tmdb.QueryParams{}), nopLogger())

	require.Error(t, m.LoadPopular(context.Background()))
	assert.NotEmpty(t, m.State().Err)

	fail = false
	require.NoError(t, m.LoadPopular(context.Background()))
	assert.Equal(t, LoadState{}, m.State())
}

func TestLoadNowPlayingRegion(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		region     string
		wantRegion string
	}{
		{name: "default", wantRegion: "IT"},
		{name: "configured", opts: []Option{WithRegion("US")}, wantRegion: "US"},
		{name: "blank configured keeps default", opts: []Option{WithRegion("  ")}, wantRegion: "IT"},
		{name: "explicit wins", opts: []Option{WithRegion("US")}, region: "GB", wantRegion: "GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New(tmdb.QueryParams{})
			st.UpdateTVSeries(items(tmdb.KindTV, "Dark"), false)
			fake := newFake(tmdb.KindMovie, func(context.Context, call) (*tmdb.Envelope, error) {
				return envelope(tmdb.KindMovie, "In Theaters"), nil
			})
			m := NewMovies(fake, st, nopLogger(), tt.opts...)

			require.NoError(t, m.LoadNowPlaying(context.Background(), tt.region))

			calls := fake.recorded()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantRegion, calls[0].opts.Get("region"))
			assert.Len(t, st.TVSeries(), 1, "now playing keeps the sibling slot")
		})
	}
}

func TestLoadOnTheAirSendsNoRegion(t *testing.T) {
	fake := newFake(tmdb.KindTV, nil)
	tv := NewTVSeries(fake, store.New(tmdb.QueryParams{}), nopLogger(), WithRegion("US"))

	require.NoError(t, tv.LoadOnTheAir(context.Background()))

	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "now_playing", calls[0].method)
	assert.Empty(t, calls[0].opts.Get("region"))
}

func TestLoadTrendingWritesTrendingSlotOnly(t *testing.T) {
	st := store.New(tmdb.QueryParams{})
	st.UpdateBoth(items(tmdb.KindMovie, "Heat"), items(tmdb.KindTV, "Dark"))

	fake := newFake(tmdb.KindTV, func(context.Context, call) (*tmdb.Envelope, error) {
		return envelope(tmdb.KindTV, "Shogun", "The Bear"), nil
	})
	tv := NewTVSeries(fake, st, nopLogger())

	require.NoError(t, tv.LoadTrending(context.Background()))

	assert.Len(t, st.TrendingTVSeries(), 2)
	assert.Empty(t, st.TrendingMovies())
	assert.Len(t, st.Movies(), 1)
	assert.Len(t, st.TVSeries(), 1)
}

func TestLoadByLanguage(t *testing.T) {
	st := store.New(tmdb.QueryParams{})
	st.UpdateTVSeries(items(tmdb.KindTV, "Dark"), false)
	fake := newFake(tmdb.KindMovie, func(context.Context, call) (*tmdb.Envelope, error) {
		return envelope(tmdb.KindMovie, "Amélie"), nil
	})
	m := NewMovies(fake, st, nopLogger())

	require.NoError(t, m.LoadByLanguage(context.Background(), " fr "))
	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "fr", calls[0].arg)
	assert.Len(t, st.Movies(), 1)
	assert.Len(t, st.TVSeries(), 1)

	err := m.LoadByLanguage(context.Background(), "")
	require.Error(t, err)
	assert.Len(t, fake.recorded(), 1, "blank language never reaches the API")
	assert.False(t, m.State().Loading)
}

func TestLatestCallWins(t *testing.T) {
	st := store.New(tmdb.QueryParams{})
	started := make(chan struct{})
	release := make(chan struct{})

	fake := newFake(tmdb.KindMovie, func(_ context.Context, c call) (*tmdb.Envelope, error) {
		if c.method == "popular" {
			close(started)
			<-release
			return envelope(tmdb.KindMovie, "Stale Popular"), nil
		}
		return envelope(tmdb.KindMovie, "Fresh Search"), nil
	})
	m := NewMovies(fake, st, nopLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	var popularErr error
	go func() {
		defer wg.Done()
		popularErr = m.LoadPopular(context.Background())
	}()

	<-started
	assert.True(t, m.State().Loading)

	require.NoError(t, m.Search(context.Background(), "fresh"))
	assert.True(t, m.State().Loading, "first call is still in flight")

	close(release)
	wg.Wait()

	require.NoError(t, popularErr)
	got := st.Movies()
	require.Len(t, got, 1)
	assert.Equal(t, "Fresh Search", got[0].Title)
	assert.False(t, m.State().Loading)
}

func TestContextCancellation(t *testing.T) {
	fake := newFake(tmdb.KindMovie, func(ctx context.Context, _ call) (*tmdb.Envelope, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return envelope(tmdb.KindMovie, "late"), nil
		}
	})
	m := NewMovies(fake, store.New(tmdb.QueryParams{}), nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.LoadTrending(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "failed to load trending movies", m.State().Err)
	assert.False(t, m.State().Loading)
}

func TestMalformedEnvelopeLoadsNoResults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tv/on_the_air" {
			w.Write([]byte(`{"page":1,"results":[{"id":7,"name":"Dark"}]}`))
			return
		}
		w.Write([]byte(`{"results":"not-a-list"}`))
	}))
	t.Cleanup(upstream.Close)

	st := store.New(tmdb.QueryParams{APIKey: "k", Language: "it-IT"})
	client, err := tmdb.NewClient(upstream.URL, st, nopLogger())
	require.NoError(t, err)

	t.Run("orchestrator writes an empty slot", func(t *testing.T) {
		st.UpdateMovies(items(tmdb.KindMovie, "Old"), false)
		m := NewMovies(client.Movies(), st, nopLogger())

		require.NoError(t, m.LoadPopular(context.Background()))
		assert.Empty(t, m.State().Err)
		assert.Empty(t, st.Movies())
	})

	t.Run("parallel load keeps the other half", func(t *testing.T) {
		pages := NewPages(client.Movies(), client.TV(), st, nopLogger())

		pair := pages.NewReleases(context.Background(), "")
		require.NoError(t, pair.Err)
		assert.Empty(t, pair.Movies)
		require.Len(t, pair.TVSeries, 1)
		assert.Equal(t, "Dark", st.TVSeries()[0].Name)
	})
}
