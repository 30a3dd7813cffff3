// Package server exposes the catalog pages and the personal list over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/boolflix/catalog"
	"github.com/s0up4200/boolflix/filter"
	"github.com/s0up4200/boolflix/mylist"
	"github.com/s0up4200/boolflix/store"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr     string
	mux      *chi.Mux
	srv      *http.Server
	pages    *catalog.Pages
	list     *mylist.List
	filters  *filter.Manager
	validate *validator.Validate
	logger   zerolog.Logger

	// pageMu serializes page loads with the store reads that answer them
	pageMu sync.Mutex
}

// New builds the router for pages, list and filter presets
func New(addr string, pages *catalog.Pages, list *mylist.List, filters *filter.Manager, logger zerolog.Logger) *Server {
	if filters == nil {
		filters = filter.NewManager()
	}

	s := &Server{
		addr:     addr,
		mux:      chi.NewRouter(),
		pages:    pages,
		list:     list,
		filters:  filters,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "http").Logger(),
	}
	s.routes()

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.Use(
		hlog.NewHandler(s.logger),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.RemoteAddrHandler("ip"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request")
		}),
		chimw.Recoverer,
		chimw.Heartbeat("/healthz"),
	)

	s.mux.Get("/", s.handleHome)
	s.mux.Get("/movies", s.handleMovies)
	s.mux.Get("/tv-series", s.handleTVSeries)
	s.mux.Get("/new-releases", s.handleNewReleases)
	s.mux.Get("/browse-by-language", s.handleBrowseByLanguage)

	s.mux.Route("/my-list", func(r chi.Router) {
		r.Get("/", s.handleListEntries)
		r.Post("/", s.handleListAdd)
		r.Delete("/{kind}/{id}", s.handleListRemove)
	})
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	changes, unsubscribe := s.pages.Store().Subscribe(16)
	defer unsubscribe()
	go s.logChanges(changes)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("HTTP server listening")
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info().Msg("Shutting down HTTP server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// logChanges reports store updates until the subscription is closed
func (s *Server) logChanges(changes <-chan store.Change) {
	for change := range changes {
		slots := make([]string, len(change.Slots))
		for i, slot := range change.Slots {
			slots[i] = string(slot)
		}
		s.logger.Debug().Strs("slots", slots).Msg("Store updated")
	}
}
