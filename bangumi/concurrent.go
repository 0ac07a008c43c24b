package bangumi

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the number of requests GetSubjectsByID keeps in
	// flight when no limit is given
	DefaultConcurrency = 5
	// MaxConcurrency caps the limit passed to GetSubjectsByID
	MaxConcurrency = 20
)

// GetSubjectsByID fetches several subjects concurrently, at most limit at a
// time. Results are in the order of ids. The first failure cancels the
// remaining requests and is returned.
func (c *Client) GetSubjectsByID(ctx context.Context, ids []uint64, limit int) ([]*Subject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	limit = min(limit, MaxConcurrency)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	// each goroutine writes its own index
	subjects := make([]*Subject, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			subject, err := c.GetSubject(ctx, id)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Uint64("subject_id", id).
					Msg("Failed to get subject")
				return err
			}
			subjects[i] = subject
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("count", len(subjects)).
		Msg("Retrieved subjects")

	return subjects, nil
}
