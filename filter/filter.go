package filter

import (
	"context"
	"errors"

	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
)

// defaultCompiler caches the expressions used by the CLI
var defaultCompiler = NewExprCompiler(WithCache(64))

// CompileFilter compiles an expression with the shared compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// runner is implemented by filters that can report evaluation failures
type runner interface {
	Run(record fsp.EnrichedRecord) (bool, error)
}

// Apply returns the records matching f, in their original order.
// Evaluation failures exclude the record and are joined into the returned
// error; only a canceled context stops the scan early.
func Apply(ctx context.Context, f Filter, records []fsp.EnrichedRecord) ([]fsp.EnrichedRecord, error) {
	matches := make([]fsp.EnrichedRecord, 0, len(records))
	var errs []error

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return matches, err
		}

		r, ok := f.(runner)
		if !ok {
			if f.Evaluate(record) {
				matches = append(matches, record)
			}
			continue
		}

		match, err := r.Run(record)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if match {
			matches = append(matches, record)
		}
	}

	return matches, errors.Join(errs...)
}
