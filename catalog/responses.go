package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/boolflix/tmdb"
)

// Fetch is a single accessor call bound to its arguments
type Fetch func(ctx context.Context) (*tmdb.Envelope, error)

// Pair holds the result of a parallel movies and TV series load
type Pair struct {
	Movies   []tmdb.Item
	TVSeries []tmdb.Item
	Err      error
}

// OK reports whether both halves loaded
func (p Pair) OK() bool {
	return p.Err == nil
}

// ExtractResults returns the results of an envelope, never nil
func ExtractResults(env *tmdb.Envelope) []tmdb.Item {
	if env == nil || env.Results == nil {
		return []tmdb.Item{}
	}
	return env.Results
}

// HandleError logs a failed call and returns an empty collection in its place
func HandleError(logger zerolog.Logger, err error, context string) []tmdb.Item {
	event := logger.Error().Err(err)
	if code := tmdb.StatusCode(err); code != 0 {
		event = event.Int("status", code)
	}
	event.Msgf("API error in %s", context)
	return []tmdb.Item{}
}

// LoadBoth runs the movies and TV series calls in parallel and waits for both.
// If either fails, both halves come back empty and Err is set.
func LoadBoth(ctx context.Context, logger zerolog.Logger, moviesFn, tvFn Fetch) Pair {
	var moviesEnv, tvEnv *tmdb.Envelope

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		env, err := moviesFn(gctx)
		if err != nil {
			return fmt.Errorf("movies: %w", err)
		}
		moviesEnv = env
		return nil
	})
	g.Go(func() error {
		env, err := tvFn(gctx)
		if err != nil {
			return fmt.Errorf("tv series: %w", err)
		}
		tvEnv = env
		return nil
	})

	if err := g.Wait(); err != nil {
		return Pair{
			Movies:   HandleError(logger, err, "parallel load"),
			TVSeries: []tmdb.Item{},
			Err:      err,
		}
	}

	return Pair{
		Movies:   ExtractResults(moviesEnv),
		TVSeries: ExtractResults(tvEnv),
	}
}
