package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size <= 0 {
			return
		}
		if cache, err := lru.New[string, CompiledFilter](size); err == nil {
			c.cache = cache
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.customFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		customFuncs: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	customFuncs map[string]any
	cache       *lru.Cache[string, CompiledFilter]
}

// Compile compiles an expression into an executable filter
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

	// A zero record gives the checker the type of every variable and helper
	env := createRuntimeEnvironment(fsp.EnrichedRecord{})
	maps.Copy(env, c.customFuncs)

	program, err := expr.Compile(expression,
		expr.Env(env),
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
	}

	if c.cache != nil {
		c.cache.Add(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate evaluates the filter against a record. Records that fail to
// evaluate do not match.
func (f *exprFilter) Evaluate(record fsp.EnrichedRecord) bool {
	ok, err := f.Run(record)
	return err == nil && ok
}

// Run evaluates the filter and reports evaluation failures
func (f *exprFilter) Run(record fsp.EnrichedRecord) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(record))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RecordID:   record.ID,
			Err:        err,
		}
	}

	// AsBool() guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the record independent helpers
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
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

// createRuntimeEnvironment creates the environment a record is evaluated in
func createRuntimeEnvironment(record fsp.EnrichedRecord) map[string]any {
	env := make(map[string]any, 40)
	addHelperFunctions(env)

	env["Record"] = record
	env["ID"] = record.ID
	env["EntityID"] = record.Entity.ID
	env["EntityName"] = record.Entity.DisplayName
	env["Link"] = record.Entity.Link
	env["Type"] = string(record.Type)
	env["Source"] = string(record.Source)
	env["Description"] = record.Description
	env["Photos"] = record.Photos
	env["PhotoCount"] = len(record.Photos)
	env["Deleted"] = record.IsDeleted()

	env["CreatedBy"] = authorName(record.CreatedBy)
	env["CreatorID"] = authorID(record.CreatedBy)
	env["CreatedAt"] = record.CreatedBy.Time()
	env["UpdatedBy"] = authorName(record.UpdatedBy)
	env["UpdaterID"] = authorID(record.UpdatedBy)
	env["UpdatedAt"] = record.UpdatedBy.Time()

	env["hasPhotos"] = func() bool {
		return len(record.Photos) > 0
	}
	env["createdBy"] = createAuthorMatchFunc(record.CreatedBy)
	env["updatedBy"] = createAuthorMatchFunc(record.UpdatedBy)
	env["createdAfter"] = func(t time.Time) bool {
		return record.CreatedBy != nil && record.CreatedBy.Time().After(t)
	}
	env["createdBefore"] = func(t time.Time) bool {
		return record.CreatedBy != nil && record.CreatedBy.Time().Before(t)
	}

	return env
}

// createAuthorMatchFunc matches an author by id or display name
func createAuthorMatchFunc(author *fsp.AuthorUser) func(string) bool {
	return func(who string) bool {
		if author == nil {
			return false
		}
		return author.ID == who || strings.EqualFold(author.DisplayName, who)
	}
}

func authorName(author *fsp.AuthorUser) string {
	if author == nil {
		return ""
	}
	return author.DisplayName
}

func authorID(author *fsp.AuthorUser) string {
	if author == nil {
		return ""
	}
	return author.ID
}
