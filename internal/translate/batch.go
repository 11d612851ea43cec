package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// one API request worth of work
type batchFunc func(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error)

func splitBatches(items []TranslationItem, size int) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

func newLimiter(perMin int) *rate.Limiter {
	if perMin <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(perMin)/60.0), 1)
}

// runBatches splits items into batches of opts.BatchSize and runs up to
// concurrency of them at once. The first failure cancels the rest.
// Results come back ordered by Index.
func runBatches(
	ctx context.Context,
	items []TranslationItem,
	opts Options,
	concurrency int,
	fn batchFunc,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	batches := splitBatches(items, opts.batchSize())
	limiter := newLimiter(opts.RateLimitPerMin)

	var (
		mu  sync.Mutex
		all []TranslationResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			results, err := fn(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}

			mu.Lock()
			all = append(all, results...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})
	return all, nil
}
