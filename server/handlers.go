package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/boolflix/filter"
	"github.com/s0up4200/boolflix/mylist"
	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

// pageResponse is the body of every catalog page
type pageResponse struct {
	Movies   []tmdb.Item `json:"movies"`
	TVSeries []tmdb.Item `json:"tv_series"`
	Error    string      `json:"error,omitempty"`
}

// listResponse is the body of the personal list endpoints
type listResponse struct {
	Entries []mylist.Entry `json:"entries"`
	Count   int            `json:"count"`
}

// addRequest is the body accepted by POST /my-list
type addRequest struct {
	ID               int64     `json:"id" validate:"required,gt=0"`
	Kind             tmdb.Kind `json:"media_type" validate:"required,oneof=movie tv"`
	Title            string    `json:"title" validate:"required_without=Name"`
	Name             string    `json:"name" validate:"required_without=Title"`
	OriginalTitle    string    `json:"original_title"`
	OriginalName     string    `json:"original_name"`
	Overview         string    `json:"overview"`
	PosterPath       string    `json:"poster_path"`
	BackdropPath     string    `json:"backdrop_path"`
	OriginalLanguage string    `json:"original_language"`
	VoteAverage      float64   `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount        int       `json:"vote_count" validate:"gte=0"`
	Popularity       float64   `json:"popularity"`
	ReleaseDate      string    `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	FirstAirDate     string    `json:"first_air_date" validate:"omitempty,datetime=2006-01-02"`
	GenreIDs         []int     `json:"genre_ids"`
	Adult            bool      `json:"adult"`
}

func (a addRequest) item() tmdb.Item {
	return tmdb.Item{
		ID:               a.ID,
		Kind:             a.Kind,
		Title:            a.Title,
		Name:             a.Name,
		OriginalTitle:    a.OriginalTitle,
		OriginalName:     a.OriginalName,
		Overview:         a.Overview,
		PosterPath:       a.PosterPath,
		BackdropPath:     a.BackdropPath,
		OriginalLanguage: a.OriginalLanguage,
		VoteAverage:      a.VoteAverage,
		VoteCount:        a.VoteCount,
		Popularity:       a.Popularity,
		ReleaseDate:      a.ReleaseDate,
		FirstAirDate:     a.FirstAirDate,
		GenreIDs:         a.GenreIDs,
		Adult:            a.Adult,
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	f, ok := s.requestFilter(w, r)
	if !ok {
		return
	}

	snap, err := s.loadPage(r.Context(), func(ctx context.Context) error {
		return s.pages.Home(ctx).Err
	})
	s.writePage(w, f, snap.TrendingMovies, snap.TrendingTVSeries, err)
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	s.handleListing(w, r, tmdb.KindMovie)
}

func (s *Server) handleTVSeries(w http.ResponseWriter, r *http.Request) {
	s.handleListing(w, r, tmdb.KindTV)
}

// handleListing sets the search term when q is present and loads the page
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request, kind tmdb.Kind) {
	f, ok := s.requestFilter(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	snap, err := s.loadPage(r.Context(), func(ctx context.Context) error {
		if query.Has("q") {
			s.pages.Store().SetSearchFilter(query.Get("q"))
		}
		return s.pages.Page(ctx, kind)
	})
	s.writePage(w, f, snap.Movies, snap.TVSeries, err)
}

func (s *Server) handleNewReleases(w http.ResponseWriter, r *http.Request) {
	f, ok := s.requestFilter(w, r)
	if !ok {
		return
	}

	region := r.URL.Query().Get("region")
	snap, err := s.loadPage(r.Context(), func(ctx context.Context) error {
		return s.pages.NewReleases(ctx, region).Err
	})
	s.writePage(w, f, snap.Movies, snap.TVSeries, err)
}

func (s *Server) handleBrowseByLanguage(w http.ResponseWriter, r *http.Request) {
	f, ok := s.requestFilter(w, r)
	if !ok {
		return
	}

	language := r.URL.Query().Get("lang")
	snap, err := s.loadPage(r.Context(), func(ctx context.Context) error {
		return s.pages.BrowseByLanguage(ctx, language).Err
	})
	s.writePage(w, f, snap.Movies, snap.TVSeries, err)
}

// loadPage runs load and snapshots the store while holding pageMu, so a
// response never carries the collections of a concurrent request
func (s *Server) loadPage(ctx context.Context, load func(ctx context.Context) error) (store.Snapshot, error) {
	s.pageMu.Lock()
	defer s.pageMu.Unlock()

	err := load(ctx)
	return s.pages.Store().Snapshot(), err
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.list.Find(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, listResponse{Entries: entries, Count: len(entries)})
}

func (s *Server) handleListAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	item := req.item()
	if !s.list.Add(item) {
		writeError(w, http.StatusConflict, fmt.Sprintf("%s is already in my list", item.DisplayName()))
		return
	}

	hlog.FromRequest(r).Info().
		Int64("id", item.ID).
		Str("kind", string(item.Kind)).
		Str("title", item.DisplayName()).
		Msg("Added to my list")

	entry, _ := s.list.Lookup(item.Kind, item.ID)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListRemove(w http.ResponseWriter, r *http.Request) {
	kind, err := tmdb.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	entry, ok := s.list.Lookup(kind, id)
	if !ok || !s.list.Remove(entry.Item) {
		writeError(w, http.StatusNotFound, "not in my list")
		return
	}

	hlog.FromRequest(r).Info().
		Int64("id", id).
		Str("kind", string(kind)).
		Msg("Removed from my list")

	w.WriteHeader(http.StatusNoContent)
}

// requestFilter resolves the optional preset or filter query parameters
func (s *Server) requestFilter(w http.ResponseWriter, r *http.Request) (filter.Filter, bool) {
	query := r.URL.Query()
	f, err := s.filters.Resolve(query.Get("preset"), query.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return f, true
}

// writePage responds with the collections and, on failure, the error text.
// Load failures still answer 200 so clients can show what is loaded.
func (s *Server) writePage(w http.ResponseWriter, f filter.Filter, movies, tvSeries []tmdb.Item, err error) {
	resp := pageResponse{
		Movies:   filter.Apply(f, movies),
		TVSeries: filter.Apply(f, tvSeries),
	}
	if err != nil {
		resp.Error = publicMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// publicMessage hides upstream details behind the intent message
func publicMessage(err error) string {
	var apiErr *tmdb.APIError
	switch {
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		return "TMDB API key is not configured"
	case errors.As(err, &apiErr) && apiErr.IsUnauthorized():
		return "TMDB rejected the API key"
	case errors.As(err, &apiErr) && apiErr.IsRateLimited():
		return "TMDB rate limit exceeded, try again later"
	}
	return err.Error()
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
