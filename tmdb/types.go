package tmdb

import (
	"fmt"
	"strings"
	"time"
)

// ImageBaseURL is the prefix for poster and backdrop paths
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// Kind discriminates movies from TV series
type Kind string

const (
	// KindMovie represents a movie
	KindMovie Kind = "movie"
	// KindTV represents a TV series
	KindTV Kind = "tv"
)

// ParseKind accepts the spellings used on the command line and in URLs
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film", "films":
		return KindMovie, nil
	case "tv", "series", "tv-series", "show", "shows":
		return KindTV, nil
	default:
		return "", fmt.Errorf("unknown content kind: %q", s)
	}
}

// IsMovie checks if the kind is a movie
func (k Kind) IsMovie() bool {
	return k == KindMovie
}

// Label returns the plural, human-readable name of the kind
func (k Kind) Label() string {
	if k == KindTV {
		return "TV series"
	}
	return "movies"
}

// Sibling returns the other kind
func (k Kind) Sibling() Kind {
	if k == KindTV {
		return KindMovie
	}
	return KindTV
}

// QueryParams are injected into every outbound request
type QueryParams struct {
	APIKey   string `json:"api_key"`
	Language string `json:"language"`
}

// ParamsSource supplies the shared query parameters at request time
type ParamsSource interface {
	QueryParams() QueryParams
}

// StaticParams is a ParamsSource that never changes
type StaticParams QueryParams

// QueryParams implements ParamsSource
func (p StaticParams) QueryParams() QueryParams {
	return QueryParams(p)
}

// Item is a single movie or TV series as returned by list endpoints.
// Movies carry Title, series carry Name.
type Item struct {
	ID               int64   `json:"id"`
	Kind             Kind    `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalName     string  `json:"original_name,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Adult            bool    `json:"adult"`
}

// DisplayName returns the title of a movie or the name of a series
func (i Item) DisplayName() string {
	if i.Kind == KindTV {
		if i.Name != "" {
			return i.Name
		}
		return i.Title
	}
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// Date returns the release date for movies and the first air date for series
func (i Item) Date() string {
	if i.Kind == KindTV {
		return i.FirstAirDate
	}
	return i.ReleaseDate
}

// Released parses Date, returning the zero time when it is missing or malformed
func (i Item) Released() time.Time {
	t, err := time.Parse(time.DateOnly, i.Date())
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the release year, or 0 when unknown
func (i Item) Year() int {
	if t := i.Released(); !t.IsZero() {
		return t.Year()
	}
	return 0
}

// PosterURL returns the full poster URL for the given size (e.g. "w342")
func (i Item) PosterURL(size string) string {
	if i.PosterPath == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return ImageBaseURL + size + i.PosterPath
}

// Identity is what makes two items the same entry. Movies and series can
// share a numeric id, so the display name takes part too.
type Identity struct {
	ID   int64
	Name string
}

// Identity returns the item's identity
func (i Item) Identity() Identity {
	return Identity{ID: i.ID, Name: i.DisplayName()}
}

// Envelope is the paginated response shared by all list endpoints
type Envelope struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Results      []Item `json:"results"`
}

// HasMorePages checks if there are more pages to fetch
func (e *Envelope) HasMorePages() bool {
	return e.Page < e.TotalPages
}

// stamp tags results that did not report their own media type
func (e *Envelope) stamp(kind Kind) {
	for i := range e.Results {
		if e.Results[i].Kind == "" {
			e.Results[i].Kind = kind
		}
	}
}

// errorBody is what TMDB sends alongside non-2xx statuses
type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
