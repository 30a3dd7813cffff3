package catalog

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/boolflix/tmdb"
)

type call struct {
	method string
	arg    string
	opts   url.Values
}

// fakeAccessor answers every method through respond and records the calls
type fakeAccessor struct {
	kind    tmdb.Kind
	respond func(ctx context.Context, c call) (*tmdb.Envelope, error)

	mu    sync.Mutex
	calls []call
}

func newFake(kind tmdb.Kind, respond func(ctx context.Context, c call) (*tmdb.Envelope, error)) *fakeAccessor {
	return &fakeAccessor{kind: kind, respond: respond}
}

func (f *fakeAccessor) do(ctx context.Context, c call) (*tmdb.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.respond == nil {
		return &tmdb.Envelope{Results: []tmdb.Item{}}, nil
	}
	return f.respond(ctx, c)
}

func (f *fakeAccessor) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeAccessor) Kind() tmdb.Kind { return f.kind }

func (f *fakeAccessor) Popular(ctx context.Context, opts tmdb.Options) (*tmdb.Envelope, error) {
	return f.do(ctx, call{method: "popular", opts: opts})
}

func (f *fakeAccessor) Search(ctx context.Context, query string, opts tmdb.Options) (*tmdb.Envelope, error) {
	return f.do(ctx, call{method: "search", arg: query, opts: opts})
}

func (f *fakeAccessor) NowPlaying(ctx context.Context, opts tmdb.Options) (*tmdb.Envelope, error) {
	return f.do(ctx, call{method: "now_playing", opts: opts})
}

func (f *fakeAccessor) Trending(ctx context.Context, opts tmdb.Options) (*tmdb.Envelope, error) {
	return f.do(ctx, call{method: "trending", opts: opts})
}

func (f *fakeAccessor) DiscoverByLanguage(ctx context.Context, language string, opts tmdb.Options) (*tmdb.Envelope, error) {
	return f.do(ctx, call{method: "discover", arg: language, opts: opts})
}

// items builds a result set tagged with kind and named after the call
func items(kind tmdb.Kind, names ...string) []tmdb.Item {
	out := make([]tmdb.Item, len(names))
	for i, name := range names {
		out[i] = tmdb.Item{ID: int64(i + 1), Kind: kind, Title: name, Name: name}
	}
	return out
}

func envelope(kind tmdb.Kind, names ...string) *tmdb.Envelope {
	return &tmdb.Envelope{Page: 1, TotalPages: 1, TotalResults: len(names), Results: items(kind, names...)}
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
