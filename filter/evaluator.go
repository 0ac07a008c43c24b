package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/s0up4200/bgmtv/bangumi"
	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator evaluates filters over large subject lists in chunks.
// Lists shorter than the batch size are evaluated inline.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

var _ Evaluator = (*ConcurrentEvaluator)(nil)

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates a single filter against all subjects
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, subjects []bangumi.Subject) ([]bangumi.Subject, error) {
	if len(subjects) == 0 {
		return []bangumi.Subject{}, nil
	}

	if len(subjects) < e.batchSize {
		return evaluateSequential(filter, subjects), nil
	}

	return e.evaluateConcurrent(ctx, filter, subjects)
}

// EvaluateBatch evaluates several filters against the same subjects
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, subjects []bangumi.Subject) (map[string][]bangumi.Subject, error) {
	results := make(map[string][]bangumi.Subject, len(filters))
	if len(filters) == 0 || len(subjects) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for name, filter := range filters {
		g.Go(func() error {
			matches, err := e.Evaluate(ctx, filter, subjects)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = matches
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluateSequential(filter CompiledFilter, subjects []bangumi.Subject) []bangumi.Subject {
	matches := make([]bangumi.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if filter.Evaluate(subject) {
			matches = append(matches, subject)
		}
	}
	return matches
}

// evaluateConcurrent splits subjects into chunks and keeps input order in
// the result
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, subjects []bangumi.Subject) ([]bangumi.Subject, error) {
	chunkSize := max(len(subjects)/e.workerCount, e.batchSize)
	chunks := make([][]bangumi.Subject, (len(subjects)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(subjects))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunks[i] = evaluateSequential(filter, subjects[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	matches := make([]bangumi.Subject, 0, total)
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	return matches, nil
}
