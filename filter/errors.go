package filter

import (
	"fmt"
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated against a subject
	EvaluationError struct {
		Expression string
		SubjectID  uint64
		Err        error
	}

	// NotFoundError indicates a named filter was never registered
	NotFoundError struct {
		Name string
		// Suggestion is the closest registered name, if one is close enough
		Suggestion string
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for filter '%s' on subject %d: %v", e.Expression, e.SubjectID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("filter '%s' not found, did you mean '%s'?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("filter '%s' not found", e.Name)
}
