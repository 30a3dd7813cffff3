package tmdb

import (
	"context"
	"net/url"
)

// API defines the interface for raw TMDB operations
type API interface {
	// TestConnection verifies the client can reach TMDB with its API key
	TestConnection(ctx context.Context) error

	// Request performs a GET and decodes the envelope
	Request(ctx context.Context, path string, params url.Values) (*Envelope, error)
}

// Accessor maps catalog intents to requests for a single content kind
type Accessor interface {
	Kind() Kind
	Popular(ctx context.Context, opts Options) (*Envelope, error)
	Search(ctx context.Context, query string, opts Options) (*Envelope, error)
	NowPlaying(ctx context.Context, opts Options) (*Envelope, error)
	Trending(ctx context.Context, opts Options) (*Envelope, error)
	DiscoverByLanguage(ctx context.Context, language string, opts Options) (*Envelope, error)
}

var (
	_ API      = (*Client)(nil)
	_ Accessor = (*Resource)(nil)
)
