package tmdb

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"movie", KindMovie, false},
		{"Movies", KindMovie, false},
		{" tv ", KindTV, false},
		{"tv-series", KindTV, false},
		{"series", KindTV, false},
		{"podcast", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind(t *testing.T) {
	assert.True(t, KindMovie.IsMovie())
	assert.False(t, KindTV.IsMovie())
	assert.Equal(t, KindTV, KindMovie.Sibling())
	assert.Equal(t, KindMovie, KindTV.Sibling())
	assert.Equal(t, "movies", KindMovie.Label())
	assert.Equal(t, "TV series", KindTV.Label())
}

func TestItemDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		expected string
	}{
		{
			name:     "movie uses title",
			item:     Item{Kind: KindMovie, Title: "Inception", Name: "ignored"},
			expected: "Inception",
		},
		{
			name:     "series uses name",
			item:     Item{Kind: KindTV, Title: "ignored", Name: "Dark"},
			expected: "Dark",
		},
		{
			name:     "series without name falls back to title",
			item:     Item{Kind: KindTV, Title: "Fallback"},
			expected: "Fallback",
		},
		{
			name:     "untagged item with only a name",
			item:     Item{Name: "Only Name"},
			expected: "Only Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.DisplayName())
		})
	}
}

func TestItemDates(t *testing.T) {
	movie := Item{Kind: KindMovie, ReleaseDate: "2010-07-16", FirstAirDate: "1990-01-01"}
	assert.Equal(t, "2010-07-16", movie.Date())
	assert.Equal(t, 2010, movie.Year())

	series := Item{Kind: KindTV, ReleaseDate: "1990-01-01", FirstAirDate: "2017-12-01"}
	assert.Equal(t, 2017, series.Year())

	unknown := Item{Kind: KindMovie, ReleaseDate: ""}
	assert.True(t, unknown.Released().IsZero())
	assert.Equal(t, 0, unknown.Year())
}

func TestItemPosterURL(t *testing.T) {
	item := Item{PosterPath: "/abc.jpg"}
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/abc.jpg", item.PosterURL("w342"))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/abc.jpg", item.PosterURL(""))
	assert.Empty(t, Item{}.PosterURL("w342"))
}

func TestItemIdentity(t *testing.T) {
	movie := Item{ID: 42, Kind: KindMovie, Title: "Same Id"}
	series := Item{ID: 42, Kind: KindTV, Name: "Other Name"}

	assert.NotEqual(t, movie.Identity(), series.Identity())
	assert.Equal(t, Identity{ID: 42, Name: "Same Id"}, movie.Identity())
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		assert.Equal(t, "tmdb API error: status 404: Not Found", err.Error())
	})

	t.Run("classification", func(t *testing.T) {
		tests := []struct {
			code         int
			unauthorized bool
			rateLimited  bool
			notFound     bool
		}{
			{401, true, false, false},
			{404, false, false, true},
			{429, false, true, false},
			{500, false, false, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.unauthorized, err.IsUnauthorized(), "code %d", tt.code)
			assert.Equal(t, tt.rateLimited, err.IsRateLimited(), "code %d", tt.code)
			assert.Equal(t, tt.notFound, err.IsNotFound(), "code %d", tt.code)
		}
	})

	t.Run("StatusCode of other errors", func(t *testing.T) {
		assert.Equal(t, 0, StatusCode(ErrMissingAPIKey))
	})
}
