package catalog

import (
	"fmt"
	"strings"

	"github.com/s0up4200/boolflix/tmdb"
)

// FormatOptions controls how much detail is printed per item
type FormatOptions struct {
	ShowDetails  bool
	ShowOverview bool
	PosterSize   string
}

// ConsoleFormatter provides console output formatting for catalog items
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatItems formats a titled list of items for console display
func (f *ConsoleFormatter) FormatItems(heading string, items []tmdb.Item, options FormatOptions) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %s found\n", strings.ToLower(heading))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", heading, len(items))

	for i, item := range items {
		isLast := i == len(items)-1
		f.formatItem(&sb, item, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatPair formats both halves of a parallel load under their own headings
func (f *ConsoleFormatter) FormatPair(moviesHeading, tvHeading string, pair Pair, options FormatOptions) string {
	if !pair.OK() {
		return fmt.Sprintf("Could not load %s and %s: %v\n",
			strings.ToLower(moviesHeading), strings.ToLower(tvHeading), pair.Err)
	}

	return f.FormatItems(moviesHeading, pair.Movies, options) +
		f.FormatItems(tvHeading, pair.TVSeries, options)
}

// formatItem formats a single item entry
func (f *ConsoleFormatter) formatItem(sb *strings.Builder, item tmdb.Item, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	if year := item.Year(); year > 0 {
		fmt.Fprintf(sb, "%s── %s (%d)\n", prefix, item.DisplayName(), year)
	} else {
		fmt.Fprintf(sb, "%s── %s\n", prefix, item.DisplayName())
	}

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		var parts []string
		if item.Kind != "" {
			parts = append(parts, string(item.Kind))
		}
		if item.OriginalLanguage != "" {
			parts = append(parts, "lang: "+item.OriginalLanguage)
		}
		if item.VoteCount > 0 {
			parts = append(parts, fmt.Sprintf("rating: %.1f (%d votes)", item.VoteAverage, item.VoteCount))
		}
		if len(parts) > 0 {
			fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(parts, " | "))
		}

		if original := originalName(item); original != "" && original != item.DisplayName() {
			fmt.Fprintf(sb, "%sOriginal: %s\n", indent, original)
		}
		if url := item.PosterURL(options.PosterSize); url != "" {
			fmt.Fprintf(sb, "%sPoster: %s\n", indent, url)
		}
	}

	if options.ShowOverview && item.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, truncate(item.Overview, 160))
	}
}

func originalName(item tmdb.Item) string {
	if item.Kind == tmdb.KindTV {
		return item.OriginalName
	}
	return item.OriginalTitle
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
