// Package worker fans snapshot files out to a fixed set of goroutines and
// collects per-file results in input order. The replay command uses it to
// plan many archived snapshots in parallel.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// Result pairs a processed value with the index of its input.
type Result[T any] struct {
	Index int
	Item  string
	Value T
	Err   error
}

// Pool runs a function over inputs with bounded concurrency.
type Pool[T any] struct {
	concurrency int
}

// NewPool creates a pool. If concurrency <= 0, it defaults to runtime.NumCPU().
func NewPool[T any](concurrency int) *Pool[T] {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Pool[T]{concurrency: concurrency}
}

// Concurrency returns the configured number of workers.
func (p *Pool[T]) Concurrency() int {
	return p.concurrency
}

// Process applies fn to each item and returns the results in input order.
// Errors are recorded per result and never stop the batch. Once ctx is
// cancelled, items not yet started get ctx.Err() without calling fn.
func (p *Pool[T]) Process(ctx context.Context, items []string, fn func(context.Context, string) (T, error)) []Result[T] {
	if len(items) == 0 {
		return nil
	}

	workers := min(p.concurrency, len(items))
	jobs := make(chan int, len(items))
	results := make([]Result[T], len(items))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := Result[T]{Index: i, Item: items[i]}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Value, r.Err = fn(ctx, items[i])
				}
				results[i] = r
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
