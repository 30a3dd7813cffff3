package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/boolflix/catalog"
	"github.com/s0up4200/boolflix/mylist"
	"github.com/s0up4200/boolflix/tmdb"
)

var pick string

// mylistCmd represents the mylist command
var mylistCmd = &cobra.Command{
	Use:     "mylist",
	Aliases: []string{"list"},
	Short:   "Manage your personal list of movies and TV series",
}

var mylistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every saved title",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withList(func(list *mylist.List) error {
			printEntries(cmd, "My list", list.Entries())
			return nil
		})
	},
}

var mylistFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find saved titles by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withList(func(list *mylist.List) error {
			printEntries(cmd, fmt.Sprintf("Saved titles matching %q", query), list.Find(query))
			return nil
		})
	},
}

var mylistAddCmd = &cobra.Command{
	Use:   "add <movie|tv> <query>",
	Short: "Search TMDB and add titles to your list",
	Long: `Search movies or TV series and choose which results to add.

Without --pick the results are shown as a numbered table and you are asked
which ones to add. With --pick the numbers are taken from the flag.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMylistAdd,
}

var mylistRemoveCmd = &cobra.Command{
	Use:   "remove <movie|tv> <id>",
	Short: "Remove a title from your list",
	Args:  cobra.ExactArgs(2),
	RunE:  runMylistRemove,
}

func init() {
	rootCmd.AddCommand(mylistCmd)
	mylistCmd.AddCommand(mylistListCmd, mylistFindCmd, mylistAddCmd, mylistRemoveCmd)

	mylistAddCmd.Flags().StringVar(&pick, "pick", "", "result numbers to add without prompting (e.g. 1,3 or all)")
}

// withList opens the list for the duration of fn
func withList(fn func(list *mylist.List) error) error {
	list, err := openList()
	if err != nil {
		return err
	}
	defer list.Close()
	return fn(list)
}

func runMylistAdd(cmd *cobra.Command, args []string) error {
	kind, err := tmdb.ParseKind(args[0])
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var search func() error
	if kind.IsMovie() {
		search = func() error { return pages.Movies.Search(ctx, query) }
	} else {
		search = func() error { return pages.TVSeries.Search(ctx, query) }
	}
	if err := search(); err != nil {
		return err
	}

	results := appStore.Collection(kind)
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No %s found for %q\n", kind.Label(), query)
		return nil
	}

	printResultTable(out, results)

	input := pick
	if input == "" {
		fmt.Fprint(out, "\nEnter numbers to add (comma-separated, e.g. 1,3,5) or 'all' [Enter to cancel]: ")
		input, err = readLine(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	selected, err := parseSelection(input, len(results))
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(out, "Nothing selected.")
		return nil
	}

	return withList(func(list *mylist.List) error {
		for _, idx := range selected {
			item := results[idx]
			if list.Add(item) {
				fmt.Fprintf(out, "✓ Added %s\n", describeItem(item))
			} else {
				fmt.Fprintf(out, "• %s is already in your list\n", describeItem(item))
			}
		}
		return nil
	})
}

func runMylistRemove(cmd *cobra.Command, args []string) error {
	kind, err := tmdb.ParseKind(args[0])
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id '%s': must be a positive integer", args[1])
	}

	return withList(func(list *mylist.List) error {
		entry, ok := list.Lookup(kind, id)
		if !ok || !list.Remove(entry.Item) {
			return fmt.Errorf("no %s with id %d in your list", kind, id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", describeItem(entry.Item))
		return nil
	})
}

// printResultTable prints numbered search results for selection
func printResultTable(w io.Writer, items []tmdb.Item) {
	fmt.Fprintln(w, strings.Repeat("━", 72))
	fmt.Fprintf(w, "%-4s %-50s %-6s %s\n", "#", "TITLE", "YEAR", "ID")
	fmt.Fprintln(w, strings.Repeat("━", 72))

	for i, item := range items {
		title := item.DisplayName()
		if len([]rune(title)) > 48 {
			title = string([]rune(title)[:45]) + "..."
		}
		year := "-"
		if y := item.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		fmt.Fprintf(w, "%-4d %-50s %-6s %d\n", i+1, title, year, item.ID)
	}
	fmt.Fprintln(w, strings.Repeat("━", 72))
}

// printEntries prints saved entries with the date they were added
func printEntries(cmd *cobra.Command, heading string, entries []mylist.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing saved\n", heading)
		return
	}
	items := make([]tmdb.Item, len(entries))
	for i, e := range entries {
		items[i] = e.Item
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItems(heading, items, catalog.FormatOptions{ShowDetails: true}))
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		// No input (Ctrl+D or similar)
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// parseSelection turns "1,3,5" or "all" into zero-based indices, dropping
// duplicates and keeping the order given
func parseSelection(input string, count int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	if strings.EqualFold(input, "all") {
		indices := make([]int, count)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		num, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s': must be a positive integer", part)
		}
		if num < 1 || num > count {
			return nil, fmt.Errorf("invalid number %d: must be between 1 and %d", num, count)
		}

		idx := num - 1
		if !seen[idx] {
			indices = append(indices, idx)
			seen[idx] = true
		}
	}
	return indices, nil
}

func describeItem(item tmdb.Item) string {
	if y := item.Year(); y > 0 {
		return fmt.Sprintf("%s (%d)", item.DisplayName(), y)
	}
	return item.DisplayName()
}
