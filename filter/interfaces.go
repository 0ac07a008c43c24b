package filter

import (
	"context"

	"github.com/s0up4200/bgmtv/bangumi"
)

// Filter defines the basic interface for subject filters
type Filter interface {
	// Evaluate checks if a subject matches the filter criteria
	Evaluate(subject bangumi.Subject) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against subjects
type Evaluator interface {
	// Evaluate returns the subjects matching filter, in input order
	Evaluate(ctx context.Context, filter CompiledFilter, subjects []bangumi.Subject) ([]bangumi.Subject, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
