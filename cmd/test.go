package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/boolflix/tmdb"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Long:  `Test the connection to TMDB with the configured API key and show the active settings.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to TMDB at %s...\n", cfg.TMDB.URL)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := tmdbClient.TestConnection(ctx); err != nil {
		var apiErr *tmdb.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			return fmt.Errorf("TMDB rejected the API key: %w", err)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Connection successful!")

	fmt.Fprintf(out, "\nSettings:\n")
	fmt.Fprintf(out, "- Language: %s\n", cfg.TMDB.Language)
	fmt.Fprintf(out, "- Region: %s\n", cfg.TMDB.Region)
	fmt.Fprintf(out, "- Timeout: %s\n", cfg.TMDB.Timeout)
	if cfg.MyList.Ephemeral {
		fmt.Fprintf(out, "- My list: in memory\n")
	} else {
		fmt.Fprintf(out, "- My list: %s\n", cfg.MyList.Path)
	}

	if names := filters.ListFilters(); len(names) > 0 {
		fmt.Fprintf(out, "\nFilter presets:\n")
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Fprintf(out, "  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}
