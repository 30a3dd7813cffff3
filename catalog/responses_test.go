package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/boolflix/tmdb"
)

func TestExtractResults(t *testing.T) {
	tests := []struct {
		name string
		env  *tmdb.Envelope
		want int
	}{
		{name: "nil envelope", env: nil, want: 0},
		{name: "nil results", env: &tmdb.Envelope{Page: 1}, want: 0},
		{name: "results", env: envelope(tmdb.KindMovie, "Heat", "Ronin"), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractResults(tt.env)
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	got := HandleError(logger, &tmdb.APIError{StatusCode: 401, Message: "Invalid API key"}, "popular movies")

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "API error in popular movies")
	assert.Contains(t, buf.String(), `"status":401`)
}

func TestLoadBoth(t *testing.T) {
	ok := func(kind tmdb.Kind, names ...string) Fetch {
		return func(context.Context) (*tmdb.Envelope, error) {
			return envelope(kind, names...), nil
		}
	}
	fail := func(context.Context) (*tmdb.Envelope, error) {
		return nil, &tmdb.APIError{StatusCode: 500, Message: "boom"}
	}

	t.Run("both succeed", func(t *testing.T) {
		pair := LoadBoth(context.Background(), nopLogger(),
			ok(tmdb.KindMovie, "Heat", "Ronin"),
			ok(tmdb.KindTV, "Dark"),
		)
		require.True(t, pair.OK())
		assert.Len(t, pair.Movies, 2)
		assert.Len(t, pair.TVSeries, 1)
	})

	t.Run("tv failure empties both", func(t *testing.T) {
		pair := LoadBoth(context.Background(), nopLogger(), ok(tmdb.KindMovie, "Heat"), fail)
		require.False(t, pair.OK())
		assert.Empty(t, pair.Movies)
		assert.Empty(t, pair.TVSeries)
		assert.NotNil(t, pair.Movies)
		assert.NotNil(t, pair.TVSeries)
		assert.Equal(t, 500, tmdb.StatusCode(pair.Err))
	})

	t.Run("movies failure empties both", func(t *testing.T) {
		pair := LoadBoth(context.Background(), nopLogger(), fail, ok(tmdb.KindTV, "Dark"))
		require.Error(t, pair.Err)
		assert.Empty(t, pair.Movies)
		assert.Empty(t, pair.TVSeries)
	})

	t.Run("failure cancels the other call", func(t *testing.T) {
		blocked := func(ctx context.Context) (*tmdb.Envelope, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		pair := LoadBoth(context.Background(), nopLogger(), blocked, fail)
		require.Error(t, pair.Err)
		assert.Equal(t, 500, tmdb.StatusCode(pair.Err))
		assert.False(t, errors.Is(pair.Err, context.Canceled))
		assert.Empty(t, pair.Movies)
	})
}
