package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/s0up4200/boolflix/config"
	"github.com/s0up4200/boolflix/mylist"
	"github.com/s0up4200/boolflix/server"
	"github.com/s0up4200/boolflix/tmdb"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog pages and your list as a JSON API",
	Long: `Start an HTTP server exposing:

  GET    /                         trending movies and TV series
  GET    /movies?q=                popular or matching movies
  GET    /tv-series?q=             popular or matching TV series
  GET    /new-releases?region=     movies in theaters and series on the air
  GET    /browse-by-language?lang= popular titles by original language
  GET    /my-list?q=               saved titles
  POST   /my-list                  save a title
  DELETE /my-list/{kind}/{id}      remove a saved title

Listing routes accept ?filter= and ?preset= to narrow the results.
Edits to tmdb.api_key and tmdb.language in the config file apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	watchQueryParams()

	return withList(func(list *mylist.List) error {
		logger.Info().
			Int("saved", list.Len()).
			Strs("presets", filters.ListFilters()).
			Msg("Starting boolflix server")
		return server.New(addr, pages, list, filters, logger).Run(ctx)
	})
}

// watchQueryParams swaps the TMDB credential and language when the config
// file changes
func watchQueryParams() {
	err := config.Watch(cfgFile, func(next *config.Config) {
		appStore.SetQueryParams(tmdb.QueryParams{
			APIKey:   next.TMDB.APIKey,
			Language: next.TMDB.Language,
		})
		logger.Info().Str("language", next.TMDB.Language).Msg("Reloaded TMDB settings")
	}, func(err error) {
		logger.Error().Err(err).Msg("Ignoring invalid config change")
	})
	switch {
	case errors.Is(err, config.ErrNoConfigFile):
		logger.Debug().Msg("No config file to watch")
	case err != nil:
		logger.Warn().Err(err).Msg("Config reload disabled")
	}
}
