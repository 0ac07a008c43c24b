package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/s0up4200/bgmtv/bangumi"
)

const dateLayout = "2006-01-02"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
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
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter. Expressions are
// type checked against a subject environment, so unknown names fail here.
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

	env := createRuntimeEnvironment(bangumi.Subject{}, c.helperFuncs)
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
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
		helpers:    c.helperFuncs,
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

// Evaluate reports whether the subject matches. A subject the expression
// fails on does not match.
func (f *exprFilter) Evaluate(subject bangumi.Subject) bool {
	ok, err := f.Match(subject)
	return err == nil && ok
}

// Match evaluates the filter and reports runtime failures
func (f *exprFilter) Match(subject bangumi.Subject) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(subject, f.helpers))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, SubjectID: subject.ID, Err: err}
	}
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the subject independent helpers
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(dateLayout, dateStr)
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
	env["fuzzy"] = func(query, str string) bool {
		return fuzzy.MatchNormalizedFold(query, str)
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// createRuntimeEnvironment creates the environment a filter is evaluated in
func createRuntimeEnvironment(subject bangumi.Subject, custom map[string]any) map[string]any {
	env := make(map[string]any, 48)

	addHelperFunctions(env)

	aired := airDate(subject)
	tags := lo.Map(subject.Tags, func(tag bangumi.SubjectTag, _ int) string { return tag.Name })

	// Subject helpers
	env["hasTag"] = createHasTagFunc(tags)
	env["tagCount"] = createTagCountFunc(subject.Tags)
	env["infobox"] = createInfoboxFunc(subject.Infobox)
	env["hasInfobox"] = createHasInfoboxFunc(subject.Infobox)
	env["nameMatches"] = createNameMatchesFunc(subject)
	env["isType"] = func(name string) bool {
		return strings.EqualFold(subject.Type.String(), name)
	}
	env["airedAfter"] = func(date string) bool {
		t, err := time.Parse(dateLayout, date)
		return err == nil && !aired.IsZero() && aired.After(t)
	}
	env["airedBefore"] = func(date string) bool {
		t, err := time.Parse(dateLayout, date)
		return err == nil && !aired.IsZero() && aired.Before(t)
	}

	// Direct subject properties
	env["Subject"] = subject
	env["ID"] = int(subject.ID)
	env["Name"] = subject.Name
	env["NameCN"] = subject.NameCN
	env["DisplayName"] = subject.DisplayName()
	env["Type"] = subject.Type.String()
	env["Summary"] = subject.Summary
	env["Platform"] = subject.Platform
	env["Date"] = lo.FromPtr(subject.Date)
	env["Aired"] = aired
	env["Year"] = aired.Year()
	env["Score"] = subject.Rating.Score
	env["Rank"] = int(subject.Rating.Rank)
	env["Votes"] = int(subject.Rating.Total)
	env["Eps"] = int(subject.Eps)
	env["TotalEpisodes"] = int(lo.FromPtr(subject.TotalEpisodes))
	env["Volumes"] = int(subject.Volumes)
	env["Collects"] = int(subject.Collection.Collect)
	env["Wishes"] = int(subject.Collection.Wish)
	env["Doing"] = int(subject.Collection.Doing)
	env["Dropped"] = int(subject.Collection.Dropped)
	env["NSFW"] = subject.NSFW
	env["Series"] = subject.Series
	env["Locked"] = subject.Locked
	env["Tags"] = tags

	maps.Copy(env, custom)

	return env
}

// airDate returns the subject's release date, or the zero time when it is
// unknown or not a plain date
func airDate(subject bangumi.Subject) time.Time {
	if subject.Date == nil {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, *subject.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func createHasTagFunc(tags []string) func(string) bool {
	lowerTags := lo.Map(tags, func(tag string, _ int) string { return strings.ToLower(tag) })
	return func(tag string) bool {
		return lo.Contains(lowerTags, strings.ToLower(tag))
	}
}

func createTagCountFunc(tags []bangumi.SubjectTag) func(string) int {
	return func(name string) int {
		tag, ok := lo.Find(tags, func(t bangumi.SubjectTag) bool { return strings.EqualFold(t.Name, name) })
		if !ok {
			return 0
		}
		return int(tag.Count)
	}
}

func createInfoboxFunc(infobox []bangumi.Infobox) func(string) string {
	return func(key string) string {
		entry, ok := lo.Find(infobox, func(i bangumi.Infobox) bool { return i.Key == key })
		if !ok {
			return ""
		}
		return entry.Value.String()
	}
}

func createHasInfoboxFunc(infobox []bangumi.Infobox) func(string) bool {
	return func(key string) bool {
		return lo.ContainsBy(infobox, func(i bangumi.Infobox) bool { return i.Key == key })
	}
}

// aliasKey is the infobox entry listing alternative titles
const aliasKey = "别名"

// createNameMatchesFunc fuzzy matches a query against the subject's names
// and aliases, ignoring case and diacritics
func createNameMatchesFunc(subject bangumi.Subject) func(string) bool {
	names := []string{subject.Name, subject.NameCN}
	if entry, ok := lo.Find(subject.Infobox, func(i bangumi.Infobox) bool { return i.Key == aliasKey }); ok {
		if items, isList := entry.Value.List(); isList {
			names = append(names, lo.Map(items, func(item bangumi.InfoboxItem, _ int) string { return item.Value })...)
		} else if single, ok := entry.Value.Single(); ok {
			names = append(names, single)
		}
	}
	names = lo.Compact(names)

	return func(query string) bool {
		return lo.ContainsBy(names, func(name string) bool {
			return fuzzy.MatchNormalizedFold(query, name)
		})
	}
}
