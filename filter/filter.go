// Package filter narrows loaded collections with expr-lang expressions.
//
// Expressions see one item at a time through variables such as Title,
// Year, Vote and Language, plus helpers like contains, daysSince and
// isMovie. For example:
//
//	isMovie() and Vote >= 7.5 and Year > 2015
//	Language == "it" and daysSince(Released) < 30
package filter

import (
	"github.com/s0up4200/boolflix/tmdb"
)

// Apply returns the items matched by f, keeping their order. A nil filter
// keeps everything.
func Apply(f Filter, items []tmdb.Item) []tmdb.Item {
	if f == nil {
		return items
	}

	matched := make([]tmdb.Item, 0, len(items))
	for _, item := range items {
		if f.Evaluate(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
