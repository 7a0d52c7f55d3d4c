package concurrency

import (
	"context"
	"sync"
)

// Options configures the worker pool.
type Options struct {
	// MaxWorkers is the maximum number of items processed concurrently.
	MaxWorkers int
}

// Defaults matches the lookup fan-out bound used across the service.
func Defaults() Options {
	return Options{MaxWorkers: 4}
}

// ForEach runs fn for every item through a fixed pool of at most
// opts.MaxWorkers goroutines. At no point are more than MaxWorkers calls in
// flight; as soon as one finishes the next queued item is admitted. Once ctx
// is canceled no new items start, but items already running finish normally.
// The returned slice holds the non-nil errors in no particular order.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts Options,
	fn func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = Defaults().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	jobs := make(chan int, len(items))
	errCh := make(chan error, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := fn(ctx, i, items[i]); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}

// Map is ForEach with a collected result per item, returned in input order
// regardless of completion order.
func Map[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	fn func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	results := make([]R, len(items))
	errs := ForEach(ctx, items, opts, func(ctx context.Context, i int, item T) error {
		r, err := fn(ctx, i, item)
		results[i] = r
		return err
	})
	return results, errs
}
