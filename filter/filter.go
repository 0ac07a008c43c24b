// Package filter selects subjects locally with expr-lang expressions, e.g.
//
//	Score >= 7.5 and hasTag("原创") and airedAfter("2020-01-01")
//
// Filters run over pages already returned by the API; they never change what
// is requested.
package filter

import (
	"context"
	"strings"

	"github.com/s0up4200/bgmtv/bangumi"
)

var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles an expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// ParseAndCreateFilter returns a predicate for expression. An empty
// expression matches every subject.
func ParseAndCreateFilter(expression string) (func(bangumi.Subject) bool, error) {
	if strings.TrimSpace(expression) == "" {
		return func(bangumi.Subject) bool { return true }, nil
	}

	filter, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}
	return filter.Evaluate, nil
}

// Apply keeps the subjects matching expression, in order
func Apply(ctx context.Context, expression string, subjects []bangumi.Subject) ([]bangumi.Subject, error) {
	if strings.TrimSpace(expression) == "" {
		return subjects, nil
	}

	filter, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}
	return NewConcurrentEvaluator().Evaluate(ctx, filter, subjects)
}

// EvaluateFilters compiles and evaluates several named expressions
func EvaluateFilters(ctx context.Context, filters map[string]string, subjects []bangumi.Subject) (map[string][]bangumi.Subject, error) {
	m := NewManager(WithCompiler(defaultCompiler))
	if err := m.RegisterFilters(filters); err != nil {
		return nil, err
	}
	return m.EvaluateAll(ctx, subjects)
}
