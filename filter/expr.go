package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/boolflix/tmdb"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.extra, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		extra: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	extra map[string]any
	cache *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter. Expressions are
// type-checked against the item environment, so unknown fields fail here.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(tmdb.Item{}, c.extra)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		extra:      c.extra,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether item matches; items that fail to evaluate never match
func (f *exprFilter) Evaluate(item tmdb.Item) bool {
	ok, err := f.Match(item)
	return err == nil && ok
}

// Match runs the program against item
func (f *exprFilter) Match(item tmdb.Item) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(item, f.extra))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Item:       item.DisplayName(),
			Err:        err,
		}
	}
	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the item-independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(time.DateOnly, dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// newEnvironment builds the variables and helpers visible to an expression
func newEnvironment(item tmdb.Item, extra map[string]any) map[string]any {
	env := make(map[string]any, 32+len(extra))

	addHelperFunctions(env)
	maps.Copy(env, extra)

	kind := item.Kind
	env["isMovie"] = func() bool { return kind == tmdb.KindMovie }
	env["isSeries"] = func() bool { return kind == tmdb.KindTV }

	env["ID"] = int(item.ID)
	env["Kind"] = string(item.Kind)
	env["Title"] = item.DisplayName()
	env["OriginalTitle"] = originalTitle(item)
	env["Overview"] = item.Overview
	env["Language"] = item.OriginalLanguage
	env["Vote"] = item.VoteAverage
	env["Votes"] = item.VoteCount
	env["Popularity"] = item.Popularity
	env["Released"] = item.Released()
	env["Year"] = item.Year()
	env["Adult"] = item.Adult
	env["Genres"] = genres(item.GenreIDs)

	return env
}

func originalTitle(item tmdb.Item) string {
	if item.Kind == tmdb.KindTV {
		return item.OriginalName
	}
	return item.OriginalTitle
}

func genres(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
