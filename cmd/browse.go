package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/boolflix/catalog"
	"github.com/s0up4200/boolflix/tmdb"
)

var region string

// homeCmd represents the home command
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show this week's trending movies and TV series",
	Args:  cobra.NoArgs,
	RunE:  runHome,
}

// moviesCmd represents the movies command
var moviesCmd = &cobra.Command{
	Use:   "movies [query]",
	Short: "Search movies, or list popular movies without a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, args, tmdb.KindMovie)
	},
}

// tvCmd represents the tv command
var tvCmd = &cobra.Command{
	Use:     "tv [query]",
	Aliases: []string{"tv-series", "series"},
	Short:   "Search TV series, or list popular series without a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, args, tmdb.KindTV)
	},
}

// releasesCmd represents the releases command
var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "Show movies now in theaters and series on the air",
	Args:  cobra.NoArgs,
	RunE:  runReleases,
}

// languageCmd represents the language command
var languageCmd = &cobra.Command{
	Use:   "language [code]",
	Short: "Browse popular titles by original language (default: it)",
	Long: `Browse the most popular movies and TV series originally produced in a
language, given as an ISO 639-1 code such as "it", "ko" or "fr".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLanguage,
}

func init() {
	for _, c := range []*cobra.Command{homeCmd, moviesCmd, tvCmd, releasesCmd, languageCmd} {
		addFilterFlags(c)
		rootCmd.AddCommand(c)
	}
	releasesCmd.Flags().StringVarP(&region, "region", "r", "", "ISO 3166-1 region for movies in theaters (default from config)")
}

func runHome(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pair := pages.Home(ctx)
	if err := pairError("trending titles", pair); err != nil {
		return err
	}

	printPair(cmd, "Trending movies", "Trending TV series", f, pair)
	return nil
}

func runListing(cmd *cobra.Command, args []string, kind tmdb.Kind) error {
	f, err := resolveFilter()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	appStore.SetSearchFilter(strings.Join(args, " "))
	if err := pages.Page(ctx, kind); err != nil {
		return err
	}

	heading := "Popular " + kind.Label()
	if term := appStore.SearchTerm(); term != "" {
		heading = fmt.Sprintf("%s matching %q", capitalize(kind.Label()), term)
	}
	printItems(cmd, heading, f, appStore.Collection(kind))
	return nil
}

func runReleases(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pair := pages.NewReleases(ctx, region)
	if err := pairError("new releases", pair); err != nil {
		return err
	}

	printPair(cmd, "Movies now playing", "TV series on the air", f, pair)
	return nil
}

func runLanguage(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter()
	if err != nil {
		return err
	}

	language := catalog.DefaultBrowseLanguage
	if len(args) == 1 {
		language = args[0]
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pair := pages.BrowseByLanguage(ctx, language)
	if err := pairError("titles in "+language, pair); err != nil {
		return err
	}

	printPair(cmd, fmt.Sprintf("Movies in %q", language), fmt.Sprintf("TV series in %q", language), f, pair)
	return nil
}

func pairError(what string, pair catalog.Pair) error {
	if pair.OK() {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", what, pair.Err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
