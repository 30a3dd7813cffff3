package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/boolflix/tmdb"
)

func testItems() []tmdb.Item {
	recent := time.Now().AddDate(0, 0, -10).Format(time.DateOnly)
	return []tmdb.Item{
		{ID: 1, Kind: tmdb.KindMovie, Title: "La grande bellezza", OriginalLanguage: "it", VoteAverage: 7.7, VoteCount: 4000, ReleaseDate: "2013-05-21", GenreIDs: []int{18, 35}},
		{ID: 2, Kind: tmdb.KindTV, Name: "Gomorra", OriginalLanguage: "it", VoteAverage: 8.4, VoteCount: 900, FirstAirDate: "2014-05-06", GenreIDs: []int{80, 18}},
		{ID: 3, Kind: tmdb.KindMovie, Title: "Heat", OriginalLanguage: "en", VoteAverage: 7.9, VoteCount: 7000, ReleaseDate: "1995-12-15", GenreIDs: []int{28, 80}},
		{ID: 4, Kind: tmdb.KindMovie, Title: "Fresh Release", OriginalLanguage: "en", VoteAverage: 6.1, VoteCount: 20, ReleaseDate: recent},
		{ID: 5, Kind: tmdb.KindTV, Name: "Unaired", OriginalLanguage: "ja"},
	}
}

func names(items []tmdb.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.DisplayName()
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `Vote > 7`},
		{name: "empty expression", expression: "   ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `contains(Title, "unclosed`, wantErr: true},
		{name: "unknown field", expression: `Rating > 7`, wantErr: true, errContains: "failed to compile"},
		{name: "non boolean", expression: `Vote + 1`, wantErr: true},
		{name: "complex expression", expression: `isMovie() and Year > 2000 and (Language == "it" or Votes > 1000)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewExprCompiler().Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		expected   []string
	}{
		{name: "language", expression: `Language == "it"`, expected: []string{"La grande bellezza", "Gomorra"}},
		{name: "movies only", expression: `isMovie()`, expected: []string{"La grande bellezza", "Heat", "Fresh Release"}},
		{name: "series only", expression: `isSeries() and Vote > 0`, expected: []string{"Gomorra"}},
		{name: "title contains ignores case", expression: `contains(Title, "HEAT")`, expected: []string{"Heat"}},
		{name: "starts with", expression: `startsWith(lower(Title), "la ")`, expected: []string{"La grande bellezza"}},
		{name: "year", expression: `Year > 0 and Year < 2000`, expected: []string{"Heat"}},
		{name: "recent release", expression: `Year > 0 and daysSince(Released) < 30`, expected: []string{"Fresh Release"}},
		{name: "released after date", expression: `Released.After(parseDate("2014-01-01"))`, expected: []string{"Gomorra", "Fresh Release"}},
		{name: "within years", expression: `Released.After(yearsAgo(1))`, expected: []string{"Fresh Release"}},
		{name: "genre", expression: `80 in Genres`, expected: []string{"Gomorra", "Heat"}},
		{name: "votes", expression: `Votes >= 1000 and Vote >= 7.8`, expected: []string{"Heat"}},
		{name: "no match", expression: `Adult`, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewExprCompiler().Compile(tt.expression)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, names(Apply(f, testItems())))
		})
	}
}

func TestApplyNilFilterKeepsAll(t *testing.T) {
	items := testItems()
	assert.Equal(t, items, Apply(nil, items))
}

func TestMatchReportsRuntimeErrors(t *testing.T) {
	f, err := NewExprCompiler(WithCustomFunctions(map[string]any{
		"explode": func() (bool, error) { return false, errors.New("boom") },
	})).Compile(`explode()`)
	require.NoError(t, err)

	item := tmdb.Item{Kind: tmdb.KindMovie, Title: "Heat"}
	ok, err := f.Match(item)
	assert.False(t, ok)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "Heat", evalErr.Item)
	assert.False(t, f.Evaluate(item))
}

func TestCompilerCache(t *testing.T) {
	c := NewExprCompiler(WithCache(2))

	first, err := c.Compile(`Vote > 5`)
	require.NoError(t, err)
	again, err := c.Compile(`  Vote > 5  `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Size())

	_, _ = c.Compile(`Vote > 6`)
	_, _ = c.Compile(`Vote > 7`)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())

	assert.Equal(t, 0, NewExprCompiler().Size())
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Size())
}
