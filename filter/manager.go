package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"

	"github.com/s0up4200/bgmtv/bangumi"
)

// Manager holds named filters, such as the presets from the config file
type Manager struct {
	compiler  Compiler
	evaluator *ConcurrentEvaluator
	filters   map[string]CompiledFilter
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *ConcurrentEvaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(100)),
		evaluator: NewConcurrentEvaluator(),
		filters:   make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers all filters or none of them
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for name, expr := range filters {
		filter, err := m.compiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// UnregisterFilter removes a filter
func (m *Manager) UnregisterFilter(name string) {
	m.mu.Lock()
	delete(m.filters, name)
	m.mu.Unlock()
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// Lookup returns a compiled filter by name. An unknown name yields a
// *NotFoundError suggesting the closest registered name, if any is close.
func (m *Manager) Lookup(name string) (CompiledFilter, error) {
	filter, exists := m.GetFilter(name)
	if !exists {
		return nil, m.notFound(name)
	}
	return filter, nil
}

func (m *Manager) notFound(name string) *NotFoundError {
	err := &NotFoundError{Name: name}

	names := m.ListFilters()
	if len(names) == 0 {
		return err
	}

	closest := lo.MinBy(names, func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	if levenshtein.Distance(name, closest) <= max(2, len([]rune(name))/3) {
		err.Suggestion = closest
	}
	return err
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// EvaluateFilter evaluates a single registered filter
func (m *Manager) EvaluateFilter(ctx context.Context, name string, subjects []bangumi.Subject) ([]bangumi.Subject, error) {
	filter, err := m.Lookup(name)
	if err != nil {
		return nil, err
	}

	return m.evaluator.Evaluate(ctx, filter, subjects)
}

// EvaluateAll evaluates all registered filters
func (m *Manager) EvaluateAll(ctx context.Context, subjects []bangumi.Subject) (map[string][]bangumi.Subject, error) {
	m.mu.RLock()
	filters := maps.Clone(m.filters)
	m.mu.RUnlock()

	return m.evaluator.EvaluateBatch(ctx, filters, subjects)
}
