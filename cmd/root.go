package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/boolflix/catalog"
	"github.com/s0up4200/boolflix/config"
	"github.com/s0up4200/boolflix/filter"
	"github.com/s0up4200/boolflix/mylist"
	"github.com/s0up4200/boolflix/store"
	"github.com/s0up4200/boolflix/tmdb"
)

// skipInit marks commands that run without configuration
const skipInit = "skip-init"

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	appStore   *store.Store
	tmdbClient *tmdb.Client
	pages      *catalog.Pages
	filters    *filter.Manager
	formatter  = catalog.NewConsoleFormatter()

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr   string
	preset       string
	showDetails  bool
	showOverview bool
	ephemeral    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "boolflix",
	Short: "Browse movies and TV series from TMDB",
	Long: `boolflix browses The Movie Database from the terminal or over HTTP.

It lists trending, popular, newly released and language-specific movies and
TV series, searches both catalogs, and keeps a personal list of titles you
want to watch.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records the build metadata reported by version and update
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep my list in memory only")
}

// initializeApp loads configuration and wires the store, client and pages
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipInit] == "true" || cmd.Name() == "help" {
		return nil
	}
	if cmd.HasParent() && cmd.Parent().Name() == "completion" {
		return nil
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("ephemeral") {
		cfg.MyList.Ephemeral = ephemeral
	}

	appStore = store.New(tmdb.QueryParams{
		APIKey:   cfg.TMDB.APIKey,
		Language: cfg.TMDB.Language,
	})

	tmdbClient, err = tmdb.NewClient(cfg.TMDB.URL, appStore, logger, tmdb.WithTimeout(cfg.TMDB.Timeout))
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	pages = catalog.NewPages(tmdbClient.Movies(), tmdbClient.TV(), appStore, logger,
		catalog.WithRegion(cfg.TMDB.Region))

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openList opens the personal list configured for this run
func openList() (*mylist.List, error) {
	if cfg.MyList.Ephemeral {
		return mylist.Open(mylist.NewMemoryStorage(nil), logger), nil
	}

	storage, err := mylist.OpenBolt(cfg.MyList.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open my list at %s: %w", cfg.MyList.Path, err)
	}
	return mylist.Open(storage, logger), nil
}

// commandContext is cancelled on interrupt
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// addFilterFlags registers --filter and --preset on a listing command
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show language, rating and poster")
	cmd.Flags().BoolVar(&showOverview, "overview", false, "show the overview of each title")
}

// resolveFilter returns the filter selected on the command line, or nil
func resolveFilter() (filter.Filter, error) {
	f, err := filters.Resolve(preset, filterExpr)
	if err != nil {
		return nil, err
	}
	if f != nil {
		logger.Debug().Str("expression", f.Expression()).Msg("Applying filter")
		return f, nil
	}
	return nil, nil
}

func formatOptions() catalog.FormatOptions {
	return catalog.FormatOptions{
		ShowDetails:  showDetails,
		ShowOverview: showOverview,
		PosterSize:   "w342",
	}
}

// printItems writes a filtered list to the command output
func printItems(cmd *cobra.Command, heading string, f filter.Filter, items []tmdb.Item) {
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItems(heading, filter.Apply(f, items), formatOptions()))
}

// printPair writes both halves of a page load, each narrowed by f
func printPair(cmd *cobra.Command, moviesHeading, tvHeading string, f filter.Filter, pair catalog.Pair) {
	pair.Movies = filter.Apply(f, pair.Movies)
	pair.TVSeries = filter.Apply(f, pair.TVSeries)
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPair(moviesHeading, tvHeading, pair, formatOptions()))
}
