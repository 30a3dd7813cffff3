package tmdb

import (
	"context"
	"net/url"
)

// Options are extra query parameters (page, region, ...) passed to an accessor
type Options = url.Values

// Resource groups the list endpoints of one content kind
type Resource struct {
	client *Client
	kind   Kind
}

// Kind returns the content kind served by this resource
func (r *Resource) Kind() Kind {
	return r.kind
}

// Popular fetches /{kind}/popular
func (r *Resource) Popular(ctx context.Context, opts Options) (*Envelope, error) {
	return r.get(ctx, "/"+string(r.kind)+"/popular", opts)
}

// Search fetches /search/{kind} for query
func (r *Resource) Search(ctx context.Context, query string, opts Options) (*Envelope, error) {
	params := merge(Options{"query": {query}}, opts)
	return r.get(ctx, "/search/"+string(r.kind), params)
}

// NowPlaying fetches /movie/now_playing for movies and /tv/on_the_air for series
func (r *Resource) NowPlaying(ctx context.Context, opts Options) (*Envelope, error) {
	if r.kind == KindTV {
		return r.get(ctx, "/tv/on_the_air", opts)
	}
	return r.get(ctx, "/movie/now_playing", opts)
}

// Trending fetches /trending/{kind}/week
func (r *Resource) Trending(ctx context.Context, opts Options) (*Envelope, error) {
	return r.get(ctx, "/trending/"+string(r.kind)+"/week", opts)
}

// DiscoverByLanguage fetches /discover/{kind} filtered by original language,
// most popular first
func (r *Resource) DiscoverByLanguage(ctx context.Context, language string, opts Options) (*Envelope, error) {
	params := merge(Options{
		"with_original_language": {language},
		"sort_by":                {"popularity.desc"},
	}, opts)
	return r.get(ctx, "/discover/"+string(r.kind), params)
}

func (r *Resource) get(ctx context.Context, path string, params url.Values) (*Envelope, error) {
	env, err := r.client.Request(ctx, path, params)
	if err != nil {
		return nil, err
	}
	env.stamp(r.kind)
	return env, nil
}

// merge returns base overlaid with overrides; neither input is modified
func merge(base, overrides url.Values) url.Values {
	out := make(url.Values, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
